package get_vehicle_calendar

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модель запроса календаря на месяц
type Request struct {
	VehicleID int64
	Year      int
	Month     time.Month
}

// Response календарь автомобиля: одна запись на каждый день месяца
type Response struct {
	VehicleID   int64
	Year        int
	Month       time.Month
	Operational bool
	Days        []domain.DayAvailability
}
