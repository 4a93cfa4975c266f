package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// ContractRepository интерфейс репозитория договоров
type ContractRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	ListByVehicle(ctx context.Context, filter domain.VehicleContractsFilter) ([]*domain.Contract, error)
	Update(ctx context.Context, contract *domain.Contract) (*domain.Contract, error)
}

// AvailabilityCache кэш календарей занятости
type AvailabilityCache interface {
	Invalidate(vehicleID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
