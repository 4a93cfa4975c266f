package update_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/availability"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	contractRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/contract"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

// UseCase use case для изменения договора до подтверждения
type UseCase struct {
	contractRepo ContractRepository
	locker       VehicleLocker
	cache        AvailabilityCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	lockTimeout  time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	contractRepo ContractRepository,
	locker VehicleLocker,
	cache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
	lockTimeout time.Duration,
) *UseCase {
	return &UseCase{
		contractRepo: contractRepo,
		locker:       locker,
		cache:        cache,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		lockTimeout:  lockTimeout,
	}
}

// Execute выполняет use case.
// Договор пересчитывается по исходному снимку тарифа; проверка доступности не учитывает сам договор.
// Если ручная сумма не передана, итог пересчитывается заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: contract=%s, start=%q, end=%q, accessoriesChanged=%t",
		req.ID, ptr.Value(req.StartDate), ptr.Value(req.EndDate), req.Accessories != nil)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 1. Текущее состояние нужно, чтобы узнать автомобиль для блокировки
	current, err := uc.contractRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, uc.mapError(err, req)
	}
	if !current.CanBeEdited() {
		uc.logger.Warn("UpdateReservation: contract=%s has status=%s", req.ID, current.Status)
		return nil, ErrNotEditable
	}

	// 2. Блокировка автомобиля внутри процесса
	lockCtx := ctx
	if uc.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, uc.lockTimeout)
		defer cancel()
	}
	unlock, err := uc.locker.Lock(lockCtx, current.VehicleID)
	if err != nil {
		uc.logger.Warn("UpdateReservation: vehicle id=%d lock timeout: %v", current.VehicleID, err)
		return nil, ErrLockTimeout
	}
	defer unlock()

	var (
		result   *domain.Contract
		quote    pricing.Quote
		override bool
	)

	now := uc.timeProvider.Now()
	target := current.Range

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.contractRepo.LockVehicle(txCtx, current.VehicleID); err != nil {
			return err
		}

		// Перечитываем под блокировкой: статус мог измениться
		contract, err := uc.contractRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !contract.CanBeEdited() {
			return ErrNotEditable
		}

		r, err := resolveRange(req, contract.Range, now)
		if err != nil {
			return err
		}
		target = r

		accessories := contract.Accessories
		if req.Accessories != nil {
			accessories = *req.Accessories
		}

		// Проверка доступности без учета самого договора
		start, end := r.Start(), r.End()
		others, err := uc.contractRepo.ListByVehicle(txCtx, domain.VehicleContractsFilter{
			VehicleID: contract.VehicleID,
			From:      &start,
			To:        &end,
		})
		if err != nil {
			return err
		}

		idx := availability.BuildExcluding(contract.VehicleID, others, contract.ID)
		if !idx.IsRangeAvailable(r) {
			conflicts := idx.Conflicts(r)
			uc.logger.Warn("UpdateReservation: vehicle id=%d unavailable on %s, %d conflict(s)",
				contract.VehicleID, r, len(conflicts))
			return &domain.UnavailableError{VehicleID: contract.VehicleID, Range: r, Conflicts: conflicts}
		}

		quote, err = pricing.Calculate(contract.DailyRate, r, accessories)
		if err != nil {
			return err
		}

		total := quote.TotalPrice
		if req.ManualTotal != nil {
			if req.ManualTotal.IsPositive() {
				total = *req.ManualTotal
				override = true
			} else {
				uc.logger.Warn("UpdateReservation: ignoring non-positive manual total %s", req.ManualTotal)
			}
		}

		contract.Range = r
		contract.Accessories = accessories
		contract.TotalPrice = total
		contract.Deposit = domain.ComputeDeposit(total)
		contract.UpdatedAt = now

		updated, err := uc.contractRepo.Update(txCtx, contract)
		if err != nil {
			return err
		}

		result = updated
		return nil
	})

	if err != nil {
		if contractRepo.IsRangeTaken(err) || contractRepo.IsSerialization(err) {
			return nil, uc.storageConflict(ctx, err, current, target)
		}
		return nil, uc.mapError(err, req)
	}

	uc.cache.Invalidate(result.VehicleID)

	uc.logger.Info("UpdateReservation: successfully updated contract id=%s, range=%s, total=%s",
		result.ID, result.Range, result.TotalPrice)

	return &Response{
		Contract:           result,
		Quote:              quote,
		ManualTotalApplied: override,
	}, nil
}

// mapError переводит ошибки хранилища в доменные
func (uc *UseCase) mapError(err error, req *Request) error {
	var unavailable *domain.UnavailableError
	switch {
	case errors.As(err, &unavailable),
		errors.Is(err, ErrNotEditable),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrPastStartDate),
		errors.Is(err, domain.ErrExcessiveDuration),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidAccessory):
		uc.logger.Warn("UpdateReservation: contract=%s rejected: %v", req.ID, err)
		return err

	case errors.Is(err, contractRepo.ErrContractNotFound):
		uc.logger.Warn("UpdateReservation: contract=%s not found", req.ID)
		return ErrContractNotFound

	default:
		uc.logger.Error("UpdateReservation: failed to update contract=%s: %v", req.ID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// storageConflict переводит отказ хранилища (ограничение исключения или сериализация) в доменную ошибку.
// Пересечения перечитываются вне транзакции: ее снимок взят до ожидания advisory-блокировки
// и не видит договор, записанный другим экземпляром сервиса.
func (uc *UseCase) storageConflict(ctx context.Context, err error, current *domain.Contract, r domain.DateRange) error {
	var conflicts []*domain.Contract
	start, end := r.Start(), r.End()
	others, listErr := uc.contractRepo.ListByVehicle(ctx, domain.VehicleContractsFilter{
		VehicleID: current.VehicleID,
		From:      &start,
		To:        &end,
	})
	if listErr != nil {
		uc.logger.Error("UpdateReservation: failed to reload conflicts for contract=%s: %v", current.ID, listErr)
	} else {
		conflicts = availability.BuildExcluding(current.VehicleID, others, current.ID).Conflicts(r)
	}

	if contractRepo.IsRangeTaken(err) {
		uc.logger.Warn("UpdateReservation: storage rejected overlapping range for contract=%s: %v", current.ID, err)
		return &domain.UnavailableError{
			VehicleID: current.VehicleID,
			Range:     r,
			Conflicts: conflicts,
			Reason:    "range already taken",
		}
	}

	uc.logger.Warn("UpdateReservation: serialization conflict for contract=%s: %v", current.ID, err)
	if len(conflicts) > 0 {
		return &domain.UnavailableError{VehicleID: current.VehicleID, Range: r, Conflicts: conflicts}
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
}
