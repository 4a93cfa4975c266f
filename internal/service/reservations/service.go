package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	contractRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/contract"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

// Service сервис для чтения договоров и переходов их жизненного цикла
type Service struct {
	contractRepo ContractRepository
	cache        AvailabilityCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

// NewService создает новый экземпляр сервиса договоров
func NewService(
	contractRepo ContractRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		contractRepo: contractRepo,
		cache:        cache,
		txManager:    txManager,
		timeProvider: realTime{},
		logger:       logger,
	}
}

// GetByID получает договор по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ContractResponse, error) {
	s.logger.Info("GetByID: fetching contract id=%s", id)

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contractRepo.ErrContractNotFound) {
			s.logger.Warn("GetByID: contract id=%s not found", id)
			return nil, ErrContractNotFound
		}
		s.logger.Error("GetByID: repository error for contract id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainContract(contract), nil
}

// ListByVehicle получает договоры автомобиля с фильтрацией по периоду
func (s *Service) ListByVehicle(ctx context.Context, req *models.ListVehicleContractsRequest) (*models.ContractListResponse, error) {
	s.logger.Info("ListByVehicle: fetching contracts for vehicle=%d, includeCancelled=%t", req.VehicleID, req.IncludeCancelled)

	if req.VehicleID <= 0 {
		return nil, fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByVehicle: invalid filter for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: invalid period: %v", ErrInvalidInput, err)
	}

	contracts, err := s.contractRepo.ListByVehicle(ctx, filter)
	if err != nil {
		s.logger.Error("ListByVehicle: repository error for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: ListByVehicle - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByVehicle: fetched %d contracts for vehicle=%d", len(contracts), req.VehicleID)
	return models.FromDomainContractList(contracts), nil
}

// TransitionStatus переводит договор в новый статус аренды.
// Ошибки жизненного цикла возвращаются без изменений.
func (s *Service) TransitionStatus(ctx context.Context, id uuid.UUID, req *models.TransitionStatusRequest) (*models.ContractResponse, error) {
	s.logger.Info("TransitionStatus: contract id=%s to status=%s", id, req.Status)

	status, err := domain.ParseContractStatus(req.Status)
	if err != nil {
		s.logger.Warn("TransitionStatus: invalid status=%s for contract id=%s", req.Status, id)
		return nil, err
	}

	updated, err := s.transition(ctx, "TransitionStatus", id, func(c *domain.Contract, now time.Time) error {
		return c.TransitionStatus(status, now)
	})
	if err != nil {
		return nil, err
	}

	// Отмена освобождает даты в календаре
	if updated.Status == domain.StatusCancelled {
		s.cache.Invalidate(updated.VehicleID)
	}

	s.logger.Info("TransitionStatus: contract id=%s is now %s", id, updated.Status)
	return models.FromDomainContract(updated), nil
}

// TransitionPayment переводит договор в новый статус оплаты
func (s *Service) TransitionPayment(ctx context.Context, id uuid.UUID, req *models.TransitionPaymentRequest) (*models.ContractResponse, error) {
	s.logger.Info("TransitionPayment: contract id=%s to payment status=%s", id, req.PaymentStatus)

	status, err := domain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("TransitionPayment: invalid payment status=%s for contract id=%s", req.PaymentStatus, id)
		return nil, err
	}

	updated, err := s.transition(ctx, "TransitionPayment", id, func(c *domain.Contract, now time.Time) error {
		return c.TransitionPayment(status, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("TransitionPayment: contract id=%s payment is now %s", id, updated.PaymentStatus)
	return models.FromDomainContract(updated), nil
}

// transition читает договор под блокировкой строки, применяет переход и сохраняет
func (s *Service) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	apply func(c *domain.Contract, now time.Time) error,
) (*domain.Contract, error) {
	var result *domain.Contract

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		contract, err := s.contractRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := apply(contract, s.timeProvider.Now()); err != nil {
			return err
		}

		updated, err := s.contractRepo.Update(txCtx, contract)
		if err != nil {
			return err
		}

		result = updated
		return nil
	})

	if err != nil {
		var transitionErr *domain.TransitionError
		switch {
		case errors.As(err, &transitionErr):
			s.logger.Warn("%s: %v", op, err)
			return nil, err
		case errors.Is(err, contractRepo.ErrContractNotFound):
			s.logger.Warn("%s: contract id=%s not found", op, id)
			return nil, ErrContractNotFound
		case contractRepo.IsSerialization(err):
			s.logger.Warn("%s: concurrent update of contract id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		default:
			s.logger.Error("%s: repository error for contract id=%s: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	return result, nil
}
