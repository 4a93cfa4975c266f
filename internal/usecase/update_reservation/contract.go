package update_reservation

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
	LockVehicle(ctx context.Context, vehicleID int64) error
}

// VehicleLocker блокировка автомобиля внутри процесса
type VehicleLocker interface {
	Lock(ctx context.Context, vehicleID int64) (func(), error)
}

// AvailabilityCache кэш календарей занятости
type AvailabilityCache interface {
	Invalidate(vehicleID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
