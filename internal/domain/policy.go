package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CheckMoneyAmount проверяет, что сумма хранится без округления:
// не больше MoneyScale знаков после запятой и не больше MaxMoneyAmount по модулю
func CheckMoneyAmount(v decimal.Decimal) error {
	if !v.Equal(v.Truncate(MoneyScale)) {
		return fmt.Errorf("amount %s has more than %d decimal places", v, MoneyScale)
	}
	if v.Abs().GreaterThan(MaxMoneyAmount) {
		return fmt.Errorf("amount %s exceeds %s", v, MaxMoneyAmount)
	}
	return nil
}

// ComputeDeposit депозит: round(total * 0.3), ограниченный диапазоном [0, total]
func ComputeDeposit(total decimal.Decimal) decimal.Decimal {
	deposit := total.Mul(DepositRate).Round(0)
	if deposit.IsNegative() {
		return decimal.Zero
	}
	if deposit.GreaterThan(total) {
		return total
	}
	return deposit
}

// ValidateBookingWindow проверяет, что аренда начинается не раньше сегодняшнего дня
// и длится не более MaxRentalDays
func ValidateBookingWindow(r DateRange, now time.Time) error {
	today := DateOf(now)
	if r.Start().Before(today) {
		return fmt.Errorf("%w: start date %s is before %s",
			ErrPastStartDate, r.Start().Format(DateFormat), today.Format(DateFormat))
	}
	if span := r.SpanDays(); span > MaxRentalDays {
		return fmt.Errorf("%w: %d days exceeds %d", ErrExcessiveDuration, span, MaxRentalDays)
	}
	return nil
}
