package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest проверяет запрос до обращения к внешним сервисам и БД
func validateRequest(req *Request, now time.Time) (domain.DateRange, error) {
	if req.VehicleID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: vehicleId must be positive", domain.ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: clientId must be positive", domain.ErrInvalidInput)
	}

	r, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DateRange{}, err
	}

	if err := domain.ValidateBookingWindow(r, now); err != nil {
		return domain.DateRange{}, err
	}

	if err := domain.ValidateAccessories(req.Accessories); err != nil {
		return domain.DateRange{}, err
	}

	if err := validateManualTotal(req); err != nil {
		return domain.DateRange{}, err
	}

	return r, nil
}

// validateManualTotal проверяет сумму оператора; неположительная сумма игнорируется позже
func validateManualTotal(req *Request) error {
	if req.ManualTotal == nil || !req.ManualTotal.IsPositive() {
		return nil
	}
	if err := domain.CheckMoneyAmount(*req.ManualTotal); err != nil {
		return fmt.Errorf("%w: manualTotal: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
