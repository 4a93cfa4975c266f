package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange некорректный интервал дат (end < start, нулевая или несуществующая дата)
	ErrInvalidRange = errors.New("invalid date range")

	// ErrPastStartDate аренда начинается раньше сегодняшнего дня
	ErrPastStartDate = errors.New("start date is in the past")

	// ErrExcessiveDuration аренда длиннее MaxRentalDays
	ErrExcessiveDuration = errors.New("rental duration exceeds limit")

	// ErrInvalidRate тариф автомобиля не положительный
	ErrInvalidRate = errors.New("invalid daily rate")

	// ErrInvalidAccessory некорректная опция
	ErrInvalidAccessory = errors.New("invalid accessory")

	// ErrInvalidInput прочие некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrVehicleUnavailable автомобиль занят на запрошенные даты или не эксплуатируется
	ErrVehicleUnavailable = errors.New("vehicle is unavailable")

	// ErrIllegalStatusTransition запрещенный переход статуса аренды
	ErrIllegalStatusTransition = errors.New("illegal status transition")

	// ErrIllegalPaymentTransition запрещенный переход статуса оплаты
	ErrIllegalPaymentTransition = errors.New("illegal payment transition")

	// ErrNotFound договор, автомобиль или клиент не найден
	ErrNotFound = errors.New("not found")

	// ErrConcurrencyConflict конкурентная операция над тем же автомобилем, запрос можно повторить
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// TransitionError ошибка перехода жизненного цикла с текущим и запрошенным состоянием
type TransitionError struct {
	Kind      error // ErrIllegalStatusTransition или ErrIllegalPaymentTransition
	Contract  string
	Current   string
	Requested string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: contract %s: %s -> %s", e.Kind, e.Contract, e.Current, e.Requested)
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}

// UnavailableError автомобиль недоступен; Conflicts содержит пересекающиеся договоры (может быть пустым)
type UnavailableError struct {
	VehicleID int64
	Range     DateRange
	Conflicts []*Contract
	Reason    string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: vehicle %d: %s", ErrVehicleUnavailable, e.VehicleID, e.Reason)
	}
	return fmt.Sprintf("%v: vehicle %d on %s: %d conflicting contract(s)",
		ErrVehicleUnavailable, e.VehicleID, e.Range, len(e.Conflicts))
}

func (e *UnavailableError) Unwrap() error {
	return ErrVehicleUnavailable
}

// Kind имена категорий ошибок, возвращаемые клиенту
const (
	KindInvalidRange             = "InvalidRange"
	KindPastStartDate            = "PastStartDate"
	KindExcessiveDuration        = "ExcessiveDuration"
	KindInvalidRate              = "InvalidRate"
	KindInvalidAccessory         = "InvalidAccessory"
	KindInvalidInput             = "InvalidInput"
	KindVehicleUnavailable       = "VehicleUnavailable"
	KindIllegalStatusTransition  = "IllegalStatusTransition"
	KindIllegalPaymentTransition = "IllegalPaymentTransition"
	KindNotFound                 = "NotFound"
	KindConcurrencyConflict      = "ConcurrencyConflict"
	KindInternal                 = "Internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidRange, KindInvalidRange},
	{ErrPastStartDate, KindPastStartDate},
	{ErrExcessiveDuration, KindExcessiveDuration},
	{ErrInvalidRate, KindInvalidRate},
	{ErrInvalidAccessory, KindInvalidAccessory},
	{ErrInvalidInput, KindInvalidInput},
	{ErrVehicleUnavailable, KindVehicleUnavailable},
	{ErrIllegalStatusTransition, KindIllegalStatusTransition},
	{ErrIllegalPaymentTransition, KindIllegalPaymentTransition},
	{ErrNotFound, KindNotFound},
	{ErrConcurrencyConflict, KindConcurrencyConflict},
}

// KindOf возвращает категорию ошибки; для неизвестных ошибок KindInternal
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
