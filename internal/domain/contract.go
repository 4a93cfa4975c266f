package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus статус договора аренды
type ContractStatus string

const (
	StatusPending   ContractStatus = "pending"
	StatusConfirmed ContractStatus = "confirmed"
	StatusActive    ContractStatus = "active"
	StatusCompleted ContractStatus = "completed"
	StatusCancelled ContractStatus = "cancelled"
)

// PaymentStatus статус оплаты договора
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "payment_pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Accessory дополнительная опция к аренде (детское кресло, GPS и т.п.)
type Accessory struct {
	Name            string
	UnitPricePerDay decimal.Decimal
	Quantity        int
}

// Validate проверяет опцию до любых расчетов
func (a Accessory) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAccessory)
	}
	if len(name) > MaxAccessoryName {
		return fmt.Errorf("%w: name %q is too long", ErrInvalidAccessory, name)
	}
	if a.UnitPricePerDay.IsNegative() {
		return fmt.Errorf("%w: %q has negative unit price %s", ErrInvalidAccessory, name, a.UnitPricePerDay)
	}
	if err := CheckMoneyAmount(a.UnitPricePerDay); err != nil {
		return fmt.Errorf("%w: %q unit price: %v", ErrInvalidAccessory, name, err)
	}
	if a.Quantity < MinAccessoryQuantity {
		return fmt.Errorf("%w: %q has quantity %d", ErrInvalidAccessory, name, a.Quantity)
	}
	return nil
}

// ValidateAccessories проверяет список опций целиком
func ValidateAccessories(accessories []Accessory) error {
	if len(accessories) > MaxAccessories {
		return fmt.Errorf("%w: too many accessories (%d > %d)", ErrInvalidAccessory, len(accessories), MaxAccessories)
	}
	for _, a := range accessories {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Contract договор аренды автомобиля
type Contract struct {
	ID        uuid.UUID
	VehicleID int64
	ClientID  int64
	Range     DateRange

	// Снимок тарифа на момент создания, дальнейшие изменения тарифа автомобиля не влияют на договор
	DailyRate   decimal.Decimal
	Accessories []Accessory

	TotalPrice decimal.Decimal
	Deposit    decimal.Decimal

	Status        ContractStatus
	PaymentStatus PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking true, если договор занимает автомобиль в календаре
func (c *Contract) IsBlocking() bool {
	return c.Status != StatusCancelled
}

// IsCancelled true для отмененного договора
func (c *Contract) IsCancelled() bool {
	return c.Status == StatusCancelled
}

// CanBeEdited поля договора можно менять только до подтверждения
func (c *Contract) CanBeEdited() bool {
	return c.Status == StatusPending
}

// VehicleContractsFilter фильтр для получения договоров автомобиля
type VehicleContractsFilter struct {
	VehicleID        int64      // Обязательный параметр
	From             *time.Time // Договоры, заканчивающиеся не раньше этой даты
	To               *time.Time // Договоры, начинающиеся не позже этой даты
	IncludeCancelled bool       // По умолчанию отмененные не возвращаются
}

// DayAvailability доступность автомобиля в конкретный день
type DayAvailability struct {
	Date      time.Time
	Available bool
}

// ParseContractStatus разбирает статус из строки
func ParseContractStatus(s string) (ContractStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown contract status %q", ErrInvalidInput, s)
}

// ParsePaymentStatus разбирает статус оплаты из строки
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, st := range AllPaymentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, s)
}
