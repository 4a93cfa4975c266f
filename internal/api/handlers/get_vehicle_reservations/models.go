package get_vehicle_reservations

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	vehicleID int64,
	fromStr string,
	toStr string,
	includeCancelledStr string,
) (*models.ListVehicleContractsRequest, error) {
	req := &models.ListVehicleContractsRequest{
		VehicleID:        vehicleID,
		IncludeCancelled: false, // По умолчанию только блокирующие договоры
	}

	if fromStr != "" {
		req.From = ptr.Ptr(fromStr)
	}

	if toStr != "" {
		req.To = ptr.Ptr(toStr)
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
