package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = fmt.Errorf("create_reservation: client %w", domain.ErrNotFound)

	// ErrVehicleNotFound возвращается, когда автомобиль не найден в автопарке
	ErrVehicleNotFound = fmt.Errorf("create_reservation: vehicle %w", domain.ErrNotFound)

	// ErrLockTimeout возвращается, если блокировку автомобиля не удалось взять за lock_timeout
	ErrLockTimeout = fmt.Errorf("create_reservation: vehicle lock timeout: %w", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
