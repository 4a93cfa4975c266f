package get_vehicle_calendar

import (
	"context"

	getVehicleCalendar "github.com/m04kA/SMC-RentalService/internal/usecase/get_vehicle_calendar"
)

type GetVehicleCalendarUseCase interface {
	Execute(ctx context.Context, req *getVehicleCalendar.Request) (*getVehicleCalendar.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
