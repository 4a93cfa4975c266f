package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/availability"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	contractRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/contract"
	fleetClient "github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
)

// UseCase use case для создания договора аренды
type UseCase struct {
	contractRepo  ContractRepository
	fleetClient   FleetServiceClient
	clientService ClientServiceClient
	locker        VehicleLocker
	cache         AvailabilityCache
	txManager     TransactionManager
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
	lockTimeout   time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	contractRepo ContractRepository,
	fleetClient FleetServiceClient,
	clientService ClientServiceClient,
	locker VehicleLocker,
	cache AvailabilityCache,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	lockTimeout time.Duration,
) *UseCase {
	return &UseCase{
		contractRepo:  contractRepo,
		fleetClient:   fleetClient,
		clientService: clientService,
		locker:        locker,
		cache:         cache,
		txManager:     txManager,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		lockTimeout:   lockTimeout,
	}
}

// Execute выполняет use case создания договора.
// Проверка доступности и запись выполняются под блокировкой автомобиля:
// внутри процесса через VehicleLocker, в БД через advisory-блокировку в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: vehicle=%d, client=%d, range=%s..%s, accessories=%d",
		req.VehicleID, req.ClientID, req.StartDate, req.EndDate, len(req.Accessories))

	// 1. Валидация входных данных
	r, err := validateRequest(req, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.metrics.ReservationRejected(domain.KindOf(err))
		return nil, err
	}

	// 2. Проверяем клиента
	exists, err := uc.clientService.ClientExists(ctx, req.ClientID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to check client: %v", ErrInternal, err)
	}
	if !exists {
		uc.logger.Warn("CreateReservation: client id=%d not found", req.ClientID)
		uc.metrics.ReservationRejected(domain.KindNotFound)
		return nil, ErrClientNotFound
	}

	// 3. Получаем автомобиль: тариф и признак эксплуатации
	vehicle, err := uc.fleetClient.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, fleetClient.ErrVehicleNotFound) {
			uc.logger.Warn("CreateReservation: vehicle id=%d not found", req.VehicleID)
			uc.metrics.ReservationRejected(domain.KindNotFound)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateReservation: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	if !vehicle.IsOperational {
		uc.logger.Warn("CreateReservation: vehicle id=%d is not operational", req.VehicleID)
		uc.metrics.ReservationRejected(domain.KindVehicleUnavailable)
		return nil, &domain.UnavailableError{VehicleID: req.VehicleID, Range: r, Reason: "vehicle is not operational"}
	}

	// 4. Блокировка автомобиля внутри процесса, ограниченная по времени
	unlock, err := uc.lockVehicle(ctx, req.VehicleID)
	if err != nil {
		uc.metrics.ReservationRejected(domain.KindOf(err))
		return nil, err
	}
	defer unlock()

	var (
		result   *domain.Contract
		quote    pricing.Quote
		override bool
	)

	// 5. Проверка доступности и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокировка автомобиля в БД на случай нескольких экземпляров сервиса
		if err := uc.contractRepo.LockVehicle(txCtx, req.VehicleID); err != nil {
			return err
		}

		// 5.2. Договоры, пересекающиеся с запрошенным интервалом (FOR UPDATE)
		start, end := r.Start(), r.End()
		contracts, err := uc.contractRepo.ListByVehicle(txCtx, domain.VehicleContractsFilter{
			VehicleID: req.VehicleID,
			From:      &start,
			To:        &end,
		})
		if err != nil {
			return err
		}

		// 5.3. Проверяем доступность
		idx := availability.Build(req.VehicleID, contracts)
		if !idx.IsRangeAvailable(r) {
			conflicts := idx.Conflicts(r)
			uc.logger.Warn("CreateReservation: vehicle id=%d unavailable on %s, %d conflict(s)",
				req.VehicleID, r, len(conflicts))
			return &domain.UnavailableError{VehicleID: req.VehicleID, Range: r, Conflicts: conflicts}
		}

		// 5.4. Расчет стоимости по снимку тарифа
		quote, err = pricing.Calculate(vehicle.DailyRate, r, req.Accessories)
		if err != nil {
			return err
		}

		total := quote.TotalPrice
		if req.ManualTotal != nil {
			if req.ManualTotal.IsPositive() {
				total = *req.ManualTotal
				override = true
			} else {
				uc.logger.Warn("CreateReservation: ignoring non-positive manual total %s", req.ManualTotal)
			}
		}

		// 5.5. Сохраняем договор
		contract := &domain.Contract{
			ID:            uuid.New(),
			VehicleID:     req.VehicleID,
			ClientID:      req.ClientID,
			Range:         r,
			DailyRate:     vehicle.DailyRate,
			Accessories:   req.Accessories,
			TotalPrice:    total,
			Deposit:       domain.ComputeDeposit(total),
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
		}

		created, err := uc.contractRepo.Create(txCtx, contract)
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		err = uc.mapError(ctx, err, req.VehicleID, r)
		uc.metrics.ReservationRejected(domain.KindOf(err))
		return nil, err
	}

	// 6. Календарь автомобиля изменился
	uc.cache.Invalidate(req.VehicleID)
	uc.metrics.ReservationCreated()

	uc.logger.Info("CreateReservation: successfully created contract id=%s, vehicle=%d, total=%s, deposit=%s",
		result.ID, result.VehicleID, result.TotalPrice, result.Deposit)

	return &Response{
		Contract:           result,
		Quote:              quote,
		ManualTotalApplied: override,
	}, nil
}

// lockVehicle ждет блокировку не дольше lockTimeout
func (uc *UseCase) lockVehicle(ctx context.Context, vehicleID int64) (func(), error) {
	lockCtx := ctx
	if uc.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, uc.lockTimeout)
		defer cancel()
	}

	started := time.Now()
	unlock, err := uc.locker.Lock(lockCtx, vehicleID)
	uc.metrics.ObserveLockWait(time.Since(started))

	if err != nil {
		if ctx.Err() != nil {
			uc.logger.Warn("CreateReservation: request cancelled while waiting for vehicle id=%d: %v", vehicleID, ctx.Err())
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		}
		uc.logger.Warn("CreateReservation: vehicle id=%d lock timeout after %s", vehicleID, uc.lockTimeout)
		return nil, ErrLockTimeout
	}
	return unlock, nil
}

// mapError переводит ошибки транзакции в доменные
func (uc *UseCase) mapError(ctx context.Context, err error, vehicleID int64, r domain.DateRange) error {
	var unavailable *domain.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		return err

	case contractRepo.IsRangeTaken(err):
		uc.logger.Warn("CreateReservation: storage rejected overlapping range for vehicle id=%d: %v", vehicleID, err)
		return &domain.UnavailableError{
			VehicleID: vehicleID,
			Range:     r,
			Conflicts: uc.freshConflicts(ctx, vehicleID, r),
			Reason:    "range already taken",
		}

	case contractRepo.IsSerialization(err):
		uc.logger.Warn("CreateReservation: serialization conflict for vehicle id=%d: %v", vehicleID, err)
		if conflicts := uc.freshConflicts(ctx, vehicleID, r); len(conflicts) > 0 {
			return &domain.UnavailableError{VehicleID: vehicleID, Range: r, Conflicts: conflicts}
		}
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)

	case errors.Is(err, domain.ErrInvalidRate), errors.Is(err, domain.ErrInvalidAccessory):
		uc.logger.Warn("CreateReservation: pricing failed for vehicle id=%d: %v", vehicleID, err)
		return err

	default:
		uc.logger.Error("CreateReservation: failed to create contract for vehicle id=%d: %v", vehicleID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// freshConflicts перечитывает договоры вне транзакции.
// Снимок сериализуемой транзакции взят до ожидания advisory-блокировки
// и не видит договор, записанный другим экземпляром сервиса.
func (uc *UseCase) freshConflicts(ctx context.Context, vehicleID int64, r domain.DateRange) []*domain.Contract {
	start, end := r.Start(), r.End()
	contracts, err := uc.contractRepo.ListByVehicle(ctx, domain.VehicleContractsFilter{
		VehicleID: vehicleID,
		From:      &start,
		To:        &end,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to reload conflicts for vehicle id=%d: %v", vehicleID, err)
		return nil
	}
	return availability.Build(vehicleID, contracts).Conflicts(r)
}
