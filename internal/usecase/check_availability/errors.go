package check_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден в автопарке
	ErrVehicleNotFound = fmt.Errorf("check_availability: vehicle %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_availability: internal error")
)
