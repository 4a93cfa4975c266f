package update_reservation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
	updateReservation "github.com/m04kA/SMC-RentalService/internal/usecase/update_reservation"
)

// AccessoryRequest опция в запросе
type AccessoryRequest struct {
	Name            string          `json:"name"`
	UnitPricePerDay decimal.Decimal `json:"unitPricePerDay"`
	Quantity        int             `json:"quantity"`
}

// UpdateReservationRequest HTTP request model, отсутствующие поля не меняются
type UpdateReservationRequest struct {
	StartDate   *string             `json:"startDate,omitempty"`
	EndDate     *string             `json:"endDate,omitempty"`
	Accessories *[]AccessoryRequest `json:"accessories,omitempty"`
	ManualTotal *decimal.Decimal    `json:"manualTotal,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	models.ContractResponse
	Quote              models.QuoteResponse `json:"quote"`
	ManualTotalApplied bool                 `json:"manualTotalApplied"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(id uuid.UUID) *updateReservation.Request {
	req := &updateReservation.Request{
		ID:          id,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		ManualTotal: r.ManualTotal,
	}

	if r.Accessories != nil {
		accessories := make([]domain.Accessory, 0, len(*r.Accessories))
		for _, a := range *r.Accessories {
			accessories = append(accessories, domain.Accessory{
				Name:            a.Name,
				UnitPricePerDay: a.UnitPricePerDay,
				Quantity:        a.Quantity,
			})
		}
		req.Accessories = &accessories
	}

	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ContractResponse:   *models.FromDomainContract(resp.Contract),
		Quote:              models.FromPricingQuote(resp.Quote),
		ManualTotalApplied: resp.ManualTotalApplied,
	}
}
