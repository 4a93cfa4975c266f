package get_vehicle_calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/availability"
	fleetClient "github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
)

const (
	minYear = 1970
	maxYear = 9999
)

// UseCase use case для получения календаря доступности автомобиля на месяц
type UseCase struct {
	fleetClient FleetServiceClient
	cache       AvailabilityCache
	loader      availability.Loader
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	fleetClient FleetServiceClient,
	cache AvailabilityCache,
	loader availability.Loader,
	logger Logger,
) *UseCase {
	return &UseCase{
		fleetClient: fleetClient,
		cache:       cache,
		loader:      loader,
		logger:      logger,
	}
}

// Execute выполняет use case.
// День доступен, только если он свободен по календарю и автомобиль в эксплуатации.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetVehicleCalendar: vehicle=%d, year=%d, month=%d", req.VehicleID, req.Year, req.Month)

	if req.Year < minYear || req.Year > maxYear || req.Month < 1 || req.Month > 12 {
		uc.logger.Warn("GetVehicleCalendar: invalid period year=%d month=%d", req.Year, req.Month)
		return nil, ErrInvalidMonth
	}

	vehicle, err := uc.fleetClient.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, fleetClient.ErrVehicleNotFound) {
			uc.logger.Warn("GetVehicleCalendar: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("GetVehicleCalendar: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	idx, err := uc.cache.Get(ctx, req.VehicleID, uc.loader)
	if err != nil {
		uc.logger.Error("GetVehicleCalendar: failed to build index for vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to build availability index: %v", ErrInternal, err)
	}

	days := idx.MonthView(req.Year, req.Month)
	if !vehicle.IsOperational {
		for i := range days {
			days[i].Available = false
		}
	}

	return &Response{
		VehicleID:   req.VehicleID,
		Year:        req.Year,
		Month:       req.Month,
		Operational: vehicle.IsOperational,
		Days:        days,
	}, nil
}
