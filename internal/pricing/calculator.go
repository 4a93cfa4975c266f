// Package pricing считает стоимость аренды по тарифу, интервалу дат и опциям.
// Расчет чистый: одинаковые входные данные всегда дают одинаковый результат.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Quote результат расчета стоимости
type Quote struct {
	TotalDays        int
	BasePrice        decimal.Decimal
	AccessoriesPrice decimal.Decimal
	TotalPrice       decimal.Decimal
}

// Calculate считает стоимость аренды.
// Тариф и опции проверяются до расчета, частичный результат не возвращается.
func Calculate(dailyRate decimal.Decimal, r domain.DateRange, accessories []domain.Accessory) (Quote, error) {
	if !dailyRate.IsPositive() {
		return Quote{}, fmt.Errorf("%w: daily rate must be positive, got %s", domain.ErrInvalidRate, dailyRate)
	}
	if err := domain.CheckMoneyAmount(dailyRate); err != nil {
		return Quote{}, fmt.Errorf("%w: daily rate: %v", domain.ErrInvalidRate, err)
	}
	if r.IsZero() {
		return Quote{}, fmt.Errorf("%w: range is required", domain.ErrInvalidRange)
	}
	if err := domain.ValidateAccessories(accessories); err != nil {
		return Quote{}, err
	}

	totalDays := r.DurationDaysForPricing()
	days := decimal.NewFromInt(int64(totalDays))

	base := dailyRate.Mul(days)

	accessoriesPrice := decimal.Zero
	for _, a := range accessories {
		perDay := a.UnitPricePerDay.Mul(decimal.NewFromInt(int64(a.Quantity)))
		accessoriesPrice = accessoriesPrice.Add(perDay.Mul(days))
	}

	// Суммы с двумя знаками после запятой, умноженные на целые, точны; проверяем только верхнюю границу
	total := base.Add(accessoriesPrice)
	if total.GreaterThan(domain.MaxMoneyAmount) {
		return Quote{}, fmt.Errorf("%w: total %s for %d day(s) exceeds %s",
			domain.ErrInvalidRate, total, totalDays, domain.MaxMoneyAmount)
	}

	return Quote{
		TotalDays:        totalDays,
		BasePrice:        base,
		AccessoriesPrice: accessoriesPrice,
		TotalPrice:       total,
	}, nil
}
