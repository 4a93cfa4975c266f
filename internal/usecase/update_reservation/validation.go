package update_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest проверяет наличие изменяемых полей
func validateRequest(req *Request) error {
	if req.StartDate == nil && req.EndDate == nil && req.Accessories == nil && req.ManualTotal == nil {
		return ErrNothingToUpdate
	}
	if req.Accessories != nil {
		if err := domain.ValidateAccessories(*req.Accessories); err != nil {
			return err
		}
	}
	if req.ManualTotal != nil && req.ManualTotal.IsPositive() {
		if err := domain.CheckMoneyAmount(*req.ManualTotal); err != nil {
			return fmt.Errorf("%w: manualTotal: %v", domain.ErrInvalidInput, err)
		}
	}
	return nil
}

// resolveRange возвращает новый интервал договора.
// Окно бронирования проверяется только при изменении дат.
func resolveRange(req *Request, current domain.DateRange, now time.Time) (domain.DateRange, error) {
	if req.StartDate == nil && req.EndDate == nil {
		return current, nil
	}

	start := domain.DayKey(current.Start())
	if req.StartDate != nil {
		start = *req.StartDate
	}
	end := domain.DayKey(current.End())
	if req.EndDate != nil {
		end = *req.EndDate
	}

	r, err := domain.ParseDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, err
	}

	if err := domain.ValidateBookingWindow(r, now); err != nil {
		return domain.DateRange{}, fmt.Errorf("new range %s: %w", r, err)
	}

	return r, nil
}
