package create_reservation

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
)

// Request модель запроса на создание договора аренды
type Request struct {
	VehicleID   int64              // ID автомобиля
	ClientID    int64              // ID клиента
	StartDate   string             // Дата начала, YYYY-MM-DD
	EndDate     string             // Дата окончания включительно, YYYY-MM-DD
	Accessories []domain.Accessory // Дополнительные опции
	ManualTotal *decimal.Decimal   // Итоговая сумма, заданная оператором (опционально)
}

// Response модель ответа с созданным договором
type Response struct {
	Contract           *domain.Contract
	Quote              pricing.Quote // Расчетная стоимость до ручной корректировки
	ManualTotalApplied bool
}
