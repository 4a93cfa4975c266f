package check_availability

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
	checkAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	VehicleID   int64                     `json:"vehicleId"`
	StartDate   string                    `json:"startDate"`
	EndDate     string                    `json:"endDate"`
	Available   bool                      `json:"available"`
	Operational bool                      `json:"operational"`
	Conflicts   []models.ConflictResponse `json:"conflicts"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		VehicleID:   resp.VehicleID,
		StartDate:   domain.DayKey(resp.Range.Start()),
		EndDate:     domain.DayKey(resp.Range.End()),
		Available:   resp.Available,
		Operational: resp.Operational,
		Conflicts:   models.FromDomainConflicts(resp.Conflicts),
	}
}
