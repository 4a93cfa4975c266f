package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
)

// Request модели

// TransitionStatusRequest запрос на смену статуса аренды
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransitionPaymentRequest запрос на смену статуса оплаты
type TransitionPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// ListVehicleContractsRequest запрос на получение договоров автомобиля
type ListVehicleContractsRequest struct {
	VehicleID        int64
	From             *string // YYYY-MM-DD (опционально)
	To               *string // YYYY-MM-DD (опционально)
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListVehicleContractsRequest) ToDomainFilter() (domain.VehicleContractsFilter, error) {
	filter := domain.VehicleContractsFilter{
		VehicleID:        r.VehicleID,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.From != nil {
		from, err := domain.ParseDate(*r.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}

	if r.To != nil {
		to, err := domain.ParseDate(*r.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	return filter, nil
}

// Response модели

// AccessoryResponse опция договора
type AccessoryResponse struct {
	Name            string          `json:"name"`
	UnitPricePerDay decimal.Decimal `json:"unitPricePerDay"`
	Quantity        int             `json:"quantity"`
}

// ContractResponse ответ с данными договора
type ContractResponse struct {
	ID            string              `json:"id"`
	VehicleID     int64               `json:"vehicleId"`
	ClientID      int64               `json:"clientId"`
	StartDate     string              `json:"startDate"` // "2025-06-01"
	EndDate       string              `json:"endDate"`   // включительно
	TotalDays     int                 `json:"totalDays"`
	DailyRate     decimal.Decimal     `json:"dailyRate"`
	Accessories   []AccessoryResponse `json:"accessories"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	Deposit       decimal.Decimal     `json:"deposit"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"paymentStatus"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// ContractListResponse ответ со списком договоров
type ContractListResponse struct {
	Contracts []ContractResponse `json:"contracts"`
}

// ConflictResponse договор, из-за которого даты заняты
type ConflictResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// QuoteResponse расчет стоимости аренды
type QuoteResponse struct {
	TotalDays        int             `json:"totalDays"`
	BasePrice        decimal.Decimal `json:"basePrice"`
	AccessoriesPrice decimal.Decimal `json:"accessoriesPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
}

// Методы конвертации

// FromPricingQuote конвертирует расчет стоимости в DTO
func FromPricingQuote(q pricing.Quote) QuoteResponse {
	return QuoteResponse{
		TotalDays:        q.TotalDays,
		BasePrice:        q.BasePrice,
		AccessoriesPrice: q.AccessoriesPrice,
		TotalPrice:       q.TotalPrice,
	}
}

// FromDomainContract конвертирует domain модель в DTO
func FromDomainContract(c *domain.Contract) *ContractResponse {
	if c == nil {
		return nil
	}

	accessories := make([]AccessoryResponse, 0, len(c.Accessories))
	for _, a := range c.Accessories {
		accessories = append(accessories, AccessoryResponse{
			Name:            a.Name,
			UnitPricePerDay: a.UnitPricePerDay,
			Quantity:        a.Quantity,
		})
	}

	return &ContractResponse{
		ID:            c.ID.String(),
		VehicleID:     c.VehicleID,
		ClientID:      c.ClientID,
		StartDate:     domain.DayKey(c.Range.Start()),
		EndDate:       domain.DayKey(c.Range.End()),
		TotalDays:     c.Range.DurationDaysForPricing(),
		DailyRate:     c.DailyRate,
		Accessories:   accessories,
		TotalPrice:    c.TotalPrice,
		Deposit:       c.Deposit,
		Status:        string(c.Status),
		PaymentStatus: string(c.PaymentStatus),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromDomainContractList конвертирует список domain моделей в DTO
func FromDomainContractList(contracts []*domain.Contract) *ContractListResponse {
	resp := &ContractListResponse{
		Contracts: make([]ContractResponse, 0, len(contracts)),
	}

	for _, c := range contracts {
		if contractResp := FromDomainContract(c); contractResp != nil {
			resp.Contracts = append(resp.Contracts, *contractResp)
		}
	}

	return resp
}

// FromDomainConflicts конвертирует пересекающиеся договоры для ответа об ошибке
func FromDomainConflicts(contracts []*domain.Contract) []ConflictResponse {
	conflicts := make([]ConflictResponse, 0, len(contracts))
	for _, c := range contracts {
		conflicts = append(conflicts, ConflictResponse{
			ID:        c.ID.String(),
			StartDate: domain.DayKey(c.Range.Start()),
			EndDate:   domain.DayKey(c.Range.End()),
			Status:    string(c.Status),
		})
	}
	return conflicts
}
