package update_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

var (
	// ErrContractNotFound возвращается, когда договор не найден
	ErrContractNotFound = fmt.Errorf("update_reservation: contract %w", domain.ErrNotFound)

	// ErrNotEditable возвращается при попытке изменить уже подтвержденный договор
	ErrNotEditable = fmt.Errorf("update_reservation: only pending contracts can be edited: %w", domain.ErrIllegalStatusTransition)

	// ErrNothingToUpdate возвращается, если в запросе нет изменяемых полей
	ErrNothingToUpdate = fmt.Errorf("update_reservation: %w: nothing to update", domain.ErrInvalidInput)

	// ErrLockTimeout возвращается, если блокировку автомобиля не удалось взять за lock_timeout
	ErrLockTimeout = fmt.Errorf("update_reservation: vehicle lock timeout: %w", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
