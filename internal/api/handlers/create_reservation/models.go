package create_reservation

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
)

// AccessoryRequest опция в запросе
type AccessoryRequest struct {
	Name            string          `json:"name"`
	UnitPricePerDay decimal.Decimal `json:"unitPricePerDay"`
	Quantity        int             `json:"quantity"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	VehicleID   int64              `json:"vehicleId" validate:"required,gt=0"`
	ClientID    int64              `json:"clientId" validate:"required,gt=0"`
	StartDate   string             `json:"startDate" validate:"required"` // "2025-06-01"
	EndDate     string             `json:"endDate" validate:"required"`   // включительно
	Accessories []AccessoryRequest `json:"accessories,omitempty"`
	ManualTotal *decimal.Decimal   `json:"manualTotal,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	models.ContractResponse
	Quote              models.QuoteResponse `json:"quote"`
	ManualTotalApplied bool                 `json:"manualTotalApplied"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() *createReservation.Request {
	accessories := make([]domain.Accessory, 0, len(r.Accessories))
	for _, a := range r.Accessories {
		accessories = append(accessories, domain.Accessory{
			Name:            a.Name,
			UnitPricePerDay: a.UnitPricePerDay,
			Quantity:        a.Quantity,
		})
	}

	return &createReservation.Request{
		VehicleID:   r.VehicleID,
		ClientID:    r.ClientID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Accessories: accessories,
		ManualTotal: r.ManualTotal,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ContractResponse:   *models.FromDomainContract(resp.Contract),
		Quote:              models.FromPricingQuote(resp.Quote),
		ManualTotalApplied: resp.ManualTotalApplied,
	}
}
