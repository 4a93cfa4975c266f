package update_reservation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
)

// Request модель запроса на изменение договора до подтверждения.
// nil-поля не меняются.
type Request struct {
	ID          uuid.UUID
	StartDate   *string             // YYYY-MM-DD
	EndDate     *string             // YYYY-MM-DD
	Accessories *[]domain.Accessory // Новый список опций (пустой список удаляет все опции)
	ManualTotal *decimal.Decimal    // Итоговая сумма, заданная оператором
}

// Response модель ответа с измененным договором
type Response struct {
	Contract           *domain.Contract
	Quote              pricing.Quote
	ManualTotalApplied bool
}
