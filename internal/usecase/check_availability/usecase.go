package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/availability"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	fleetClient "github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
)

// UseCase use case для проверки доступности автомобиля на интервал.
// Работает без блокировок; окончательное решение принимает создание договора.
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

// Execute выполняет use case проверки доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: vehicle=%d, range=%s..%s", req.VehicleID, req.StartDate, req.EndDate)

	if req.VehicleID <= 0 {
		return nil, fmt.Errorf("%w: vehicleId must be positive", domain.ErrInvalidInput)
	}

	r, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	vehicle, err := uc.fleetClient.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, fleetClient.ErrVehicleNotFound) {
			uc.logger.Warn("CheckAvailability: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	idx, err := uc.cache.Get(ctx, req.VehicleID, uc.loader)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to build index for vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to build availability index: %v", ErrInternal, err)
	}

	conflicts := idx.Conflicts(r)
	// Календарь и признак эксплуатации объединяются через И
	available := vehicle.IsOperational && idx.IsRangeAvailable(r)

	uc.logger.Info("CheckAvailability: vehicle=%d, range=%s, available=%t, operational=%t, conflicts=%d",
		req.VehicleID, r, available, vehicle.IsOperational, len(conflicts))

	return &Response{
		VehicleID:   req.VehicleID,
		Range:       r,
		Available:   available,
		Operational: vehicle.IsOperational,
		Conflicts:   conflicts,
	}, nil
}
