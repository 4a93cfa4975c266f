package get_vehicle_calendar

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден в автопарке
	ErrVehicleNotFound = fmt.Errorf("get_vehicle_calendar: vehicle %w", domain.ErrNotFound)

	// ErrInvalidMonth возвращается при некорректном годе или месяце
	ErrInvalidMonth = fmt.Errorf("get_vehicle_calendar: %w: year/month out of range", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_vehicle_calendar: internal error")
)
