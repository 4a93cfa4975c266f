package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rng(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestCalculate(t *testing.T) {
	t.Run("no accessories", func(t *testing.T) {
		q, err := Calculate(dec("5000"), rng(t, "2025-06-01", "2025-06-03"), nil)
		require.NoError(t, err)

		assert.Equal(t, 2, q.TotalDays)
		assertDecimal(t, "10000", q.BasePrice)
		assertDecimal(t, "0", q.AccessoriesPrice)
		assertDecimal(t, "10000", q.TotalPrice)
		assertDecimal(t, "3000", domain.ComputeDeposit(q.TotalPrice))
	})

	t.Run("accessories over four days", func(t *testing.T) {
		accessories := []domain.Accessory{{Name: "GPS", UnitPricePerDay: dec("500"), Quantity: 1}}

		q, err := Calculate(dec("5000"), rng(t, "2025-06-01", "2025-06-05"), accessories)
		require.NoError(t, err)

		assert.Equal(t, 4, q.TotalDays)
		assertDecimal(t, "2000", q.AccessoriesPrice)
		assertDecimal(t, "22000", q.TotalPrice)
	})

	t.Run("quantity multiplies surcharge", func(t *testing.T) {
		accessories := []domain.Accessory{
			{Name: "Child seat", UnitPricePerDay: dec("150.50"), Quantity: 2},
			{Name: "Snow chains", UnitPricePerDay: dec("0"), Quantity: 4},
		}

		q, err := Calculate(dec("2999.99"), rng(t, "2025-06-01", "2025-06-04"), accessories)
		require.NoError(t, err)

		assertDecimal(t, "8999.97", q.BasePrice)
		assertDecimal(t, "903", q.AccessoriesPrice)
		assertDecimal(t, "9902.97", q.TotalPrice)
	})

	t.Run("same day rental prices one day", func(t *testing.T) {
		q, err := Calculate(dec("5000"), rng(t, "2025-06-01", "2025-06-01"), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, q.TotalDays)
		assertDecimal(t, "5000", q.TotalPrice)
	})

	t.Run("deterministic", func(t *testing.T) {
		accessories := []domain.Accessory{{Name: "GPS", UnitPricePerDay: dec("333.33"), Quantity: 3}}
		r := rng(t, "2025-06-01", "2025-06-08")

		first, err := Calculate(dec("1234.56"), r, accessories)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			next, err := Calculate(dec("1234.56"), r, accessories)
			require.NoError(t, err)
			assert.True(t, first.TotalPrice.Equal(next.TotalPrice))
		}
	})
}

func TestCalculate_Errors(t *testing.T) {
	r := rng(t, "2025-06-01", "2025-06-03")

	_, err := Calculate(dec("0"), r, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = Calculate(dec("-10"), r, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = Calculate(dec("100"), domain.DateRange{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = Calculate(dec("100"), r, []domain.Accessory{
		{Name: "GPS", UnitPricePerDay: dec("10"), Quantity: 1},
		{Name: "Seat", UnitPricePerDay: dec("10"), Quantity: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAccessory)
}

func TestCalculate_MoneyLimits(t *testing.T) {
	r := rng(t, "2030-06-01", "2030-06-04")

	t.Run("rate with sub-cent precision", func(t *testing.T) {
		_, err := Calculate(dec("1000.005"), r, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})

	t.Run("accessory with sub-cent precision", func(t *testing.T) {
		_, err := Calculate(dec("1000"), r, []domain.Accessory{{Name: "GPS", UnitPricePerDay: dec("0.3333"), Quantity: 1}})
		assert.ErrorIs(t, err, domain.ErrInvalidAccessory)
	})

	t.Run("total above column maximum", func(t *testing.T) {
		_, err := Calculate(dec("5000000000"), r, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRate)
	})

	t.Run("total at column maximum", func(t *testing.T) {
		q, err := Calculate(dec("3333333333.33"), r, nil)
		require.NoError(t, err)
		assertDecimal(t, "9999999999.99", q.TotalPrice)
	})

	t.Run("cents stay exact", func(t *testing.T) {
		q, err := Calculate(dec("1000.01"), r, []domain.Accessory{{Name: "GPS", UnitPricePerDay: dec("0.33"), Quantity: 3}})
		require.NoError(t, err)
		assertDecimal(t, "3002.97", q.TotalPrice)
		assert.True(t, q.TotalPrice.Equal(q.TotalPrice.Round(domain.MoneyScale)))
	})
}
