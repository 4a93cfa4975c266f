package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
)

// ContractRepository интерфейс репозитория договоров
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) (*domain.Contract, error)
	ListByVehicle(ctx context.Context, filter domain.VehicleContractsFilter) ([]*domain.Contract, error)
	LockVehicle(ctx context.Context, vehicleID int64) error
}

// FleetServiceClient интерфейс клиента автопарка
type FleetServiceClient interface {
	GetVehicle(ctx context.Context, vehicleID int64) (*fleetservice.Vehicle, error)
}

// ClientServiceClient интерфейс клиента сервиса клиентов
type ClientServiceClient interface {
	ClientExists(ctx context.Context, clientID int64) (bool, error)
}

// VehicleLocker блокировка автомобиля внутри процесса
type VehicleLocker interface {
	Lock(ctx context.Context, vehicleID int64) (func(), error)
}

// AvailabilityCache кэш календарей занятости
type AvailabilityCache interface {
	Invalidate(vehicleID int64)
}

// Metrics доменные метрики бронирования
type Metrics interface {
	ReservationCreated()
	ReservationRejected(reason string)
	ObserveLockWait(d time.Duration)
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
