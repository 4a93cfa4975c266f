package get_vehicle_calendar

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/availability"
	"github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
)

// FleetServiceClient интерфейс клиента автопарка
type FleetServiceClient interface {
	GetVehicle(ctx context.Context, vehicleID int64) (*fleetservice.Vehicle, error)
}

// AvailabilityCache кэш календарей занятости
type AvailabilityCache interface {
	Get(ctx context.Context, vehicleID int64, load availability.Loader) (*availability.Index, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
