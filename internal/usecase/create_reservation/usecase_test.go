package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	contractRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/contract"
	"github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
	"github.com/m04kA/SMC-RentalService/pkg/keylock"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memoryRepo хранит договоры в памяти и ведет себя как репозиторий без ограничения исключения
type memoryRepo struct {
	mu        sync.Mutex
	contracts []*domain.Contract
	createErr error
	locked    []int64
	delay     time.Duration
	// concurrent договор другого экземпляра, который становится виден только после отказа Create
	concurrent *domain.Contract
}

func (r *memoryRepo) Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		if r.concurrent != nil {
			r.contracts = append(r.contracts, r.concurrent)
		}
		return nil, r.createErr
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.contracts = append(r.contracts, c)
	return c, nil
}

func (r *memoryRepo) ListByVehicle(ctx context.Context, f domain.VehicleContractsFilter) ([]*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Contract
	for _, c := range r.contracts {
		if c.VehicleID != f.VehicleID || (!f.IncludeCancelled && c.IsCancelled()) {
			continue
		}
		if f.From != nil && c.Range.End().Before(*f.From) {
			continue
		}
		if f.To != nil && c.Range.Start().After(*f.To) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryRepo) LockVehicle(ctx context.Context, vehicleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = append(r.locked, vehicleID)
	return nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contracts)
}

type MockFleet struct{ mock.Mock }

func (m *MockFleet) GetVehicle(ctx context.Context, vehicleID int64) (*fleetservice.Vehicle, error) {
	args := m.Called(ctx, vehicleID)
	if v := args.Get(0); v != nil {
		return v.(*fleetservice.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockClients struct{ mock.Mock }

func (m *MockClients) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

type spyCache struct {
	mu          sync.Mutex
	invalidated []int64
}

func (c *spyCache) Invalidate(vehicleID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, vehicleID)
}

type fixture struct {
	uc      *UseCase
	repo    *memoryRepo
	fleet   *MockFleet
	clients *MockClients
	cache   *spyCache
	locker  *keylock.KeyLock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    &memoryRepo{},
		fleet:   &MockFleet{},
		clients: &MockClients{},
		cache:   &spyCache{},
		locker:  keylock.New(),
	}
	f.uc = NewUseCase(f.repo, f.fleet, f.clients, f.locker, f.cache, passThroughTx{}, metrics.Nop{}, nopLogger{}, time.Second)
	f.uc.timeProvider = fixedTime{now: time.Date(2025, 5, 20, 14, 0, 0, 0, time.Local)}
	return f
}

func (f *fixture) withVehicle(id int64, rate string, operational bool) {
	f.fleet.On("GetVehicle", mock.Anything, id).Return(&fleetservice.Vehicle{
		ID:            id,
		DailyRate:     decimal.RequireFromString(rate),
		IsOperational: operational,
	}, nil)
}

func (f *fixture) seed(t *testing.T, vehicleID int64, start, end string, status domain.ContractStatus) *domain.Contract {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	c := &domain.Contract{ID: uuid.New(), VehicleID: vehicleID, ClientID: 99, Range: r, Status: status}
	f.repo.contracts = append(f.repo.contracts, c)
	return c
}

func ptrDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func request(start, end string) *Request {
	return &Request{VehicleID: 1, ClientID: 2, StartDate: start, EndDate: end}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(t)
	f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
	f.withVehicle(1, "5000", true)

	resp, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

	require.NoError(t, err)
	c := resp.Contract
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, 2, resp.Quote.TotalDays)
	assert.True(t, decimal.NewFromInt(10000).Equal(resp.Quote.BasePrice))
	assert.True(t, decimal.NewFromInt(10000).Equal(c.TotalPrice))
	assert.True(t, decimal.NewFromInt(3000).Equal(c.Deposit))
	assert.True(t, decimal.NewFromInt(5000).Equal(c.DailyRate))
	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Equal(t, domain.PaymentPending, c.PaymentStatus)
	assert.False(t, resp.ManualTotalApplied)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, []int64{1}, f.repo.locked)
	assert.Equal(t, []int64{1}, f.cache.invalidated)
	assert.Equal(t, 0, f.locker.Len(), "vehicle lock must be released")
}

func TestUseCase_Execute_Conflict(t *testing.T) {
	f := newFixture(t)
	f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
	f.withVehicle(1, "5000", true)
	existing := f.seed(t, 1, "2025-06-02", "2025-06-05", domain.StatusConfirmed)
	f.seed(t, 1, "2025-06-01", "2025-06-03", domain.StatusCancelled)
	f.seed(t, 7, "2025-06-01", "2025-06-03", domain.StatusActive)

	_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

	require.ErrorIs(t, err, domain.ErrVehicleUnavailable)
	var unavailable *domain.UnavailableError
	require.True(t, errors.As(err, &unavailable))
	require.Len(t, unavailable.Conflicts, 1)
	assert.Equal(t, existing.ID, unavailable.Conflicts[0].ID)
	assert.Equal(t, 3, f.repo.count(), "no contract must be written")
	assert.Empty(t, f.cache.invalidated)
}

func TestUseCase_Execute_ValidationFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "end before start", req: request("2025-06-05", "2025-06-01"), wantErr: domain.ErrInvalidRange},
		{name: "impossible date", req: request("2025-02-30", "2025-06-01"), wantErr: domain.ErrInvalidRange},
		{name: "start in the past", req: request("2025-05-19", "2025-06-01"), wantErr: domain.ErrPastStartDate},
		{name: "longer than a year", req: request("2025-06-01", "2026-06-02"), wantErr: domain.ErrExcessiveDuration},
		{name: "missing client", req: &Request{VehicleID: 1, StartDate: "2025-06-01", EndDate: "2025-06-02"}, wantErr: domain.ErrInvalidInput},
		{
			name: "manual total with sub-cent precision",
			req: &Request{VehicleID: 1, ClientID: 2, StartDate: "2025-06-01", EndDate: "2025-06-02",
				ManualTotal: ptrDecimal("0.001")},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "manual total above column maximum",
			req: &Request{VehicleID: 1, ClientID: 2, StartDate: "2025-06-01", EndDate: "2025-06-02",
				ManualTotal: ptrDecimal("10000000000")},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "accessory price with sub-cent precision",
			req: &Request{VehicleID: 1, ClientID: 2, StartDate: "2025-06-01", EndDate: "2025-06-02",
				Accessories: []domain.Accessory{{Name: "GPS", UnitPricePerDay: decimal.RequireFromString("0.3333"), Quantity: 1}}},
			wantErr: domain.ErrInvalidAccessory,
		},
		{
			name: "bad accessory",
			req: &Request{VehicleID: 1, ClientID: 2, StartDate: "2025-06-01", EndDate: "2025-06-02",
				Accessories: []domain.Accessory{{Name: "GPS", UnitPricePerDay: decimal.NewFromInt(-5), Quantity: 1}}},
			wantErr: domain.ErrInvalidAccessory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			f.clients.AssertNotCalled(t, "ClientExists", mock.Anything, mock.Anything)
			f.fleet.AssertNotCalled(t, "GetVehicle", mock.Anything, mock.Anything)
			assert.Equal(t, 0, f.repo.count())
		})
	}
}

func TestUseCase_Execute_Collaborators(t *testing.T) {
	t.Run("client not found", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(false, nil)

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

		assert.ErrorIs(t, err, ErrClientNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("vehicle not found", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.fleet.On("GetVehicle", mock.Anything, int64(1)).Return(nil, fleetservice.ErrVehicleNotFound)

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("vehicle not operational", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.withVehicle(1, "5000", false)

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

		require.ErrorIs(t, err, domain.ErrVehicleUnavailable)
		var unavailable *domain.UnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Empty(t, unavailable.Conflicts)
		assert.Empty(t, f.repo.locked)
	})

	t.Run("client service down", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(false, errors.New("timeout"))

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	})

	t.Run("vehicle rate with sub-cent precision", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.withVehicle(1, "1000.005", true)

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

		assert.ErrorIs(t, err, domain.ErrInvalidRate)
		assert.Equal(t, domain.KindInvalidRate, domain.KindOf(err))
		assert.Equal(t, 0, f.repo.count())
	})

	t.Run("total above column maximum", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.withVehicle(1, "5000000000", true)

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-04"))

		assert.ErrorIs(t, err, domain.ErrInvalidRate)
		assert.Equal(t, 0, f.repo.count())
	})

	t.Run("invalid vehicle rate", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.withVehicle(1, "0", true)

		_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

		assert.ErrorIs(t, err, domain.ErrInvalidRate)
		assert.Equal(t, 0, f.repo.count())
	})
}

func TestUseCase_Execute_ManualTotal(t *testing.T) {
	t.Run("positive override replaces computed total", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.withVehicle(1, "5000", true)
		manual := decimal.NewFromInt(8000)
		req := request("2025-06-01", "2025-06-03")
		req.ManualTotal = &manual

		resp, err := f.uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.ManualTotalApplied)
		assert.True(t, manual.Equal(resp.Contract.TotalPrice))
		assert.True(t, decimal.NewFromInt(2400).Equal(resp.Contract.Deposit))
		assert.True(t, decimal.NewFromInt(10000).Equal(resp.Quote.TotalPrice))
	})

	t.Run("non-positive override is ignored", func(t *testing.T) {
		f := newFixture(t)
		f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
		f.withVehicle(1, "5000", true)
		zero := decimal.Zero
		req := request("2025-06-01", "2025-06-03")
		req.ManualTotal = &zero

		resp, err := f.uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.False(t, resp.ManualTotalApplied)
		assert.True(t, decimal.NewFromInt(10000).Equal(resp.Contract.TotalPrice))
	})
}

func TestUseCase_Execute_StorageConflicts(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantErr  error
	}{
		{
			name:     "exclusion constraint",
			storeErr: fmt.Errorf("%w: Create: %v", contractRepo.ErrRangeTaken, &pq.Error{Code: "23P01"}),
			wantErr:  domain.ErrVehicleUnavailable,
		},
		{
			name:     "serialization failure on commit",
			storeErr: fmt.Errorf("txmanager: commit: %w", &pq.Error{Code: "40001"}),
			wantErr:  domain.ErrConcurrencyConflict,
		},
		{
			name:     "unexpected error",
			storeErr: errors.New("disk full"),
			wantErr:  ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
			f.withVehicle(1, "5000", true)
			f.repo.createErr = tt.storeErr

			_, err := f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.cache.invalidated)
			assert.Equal(t, 0, f.locker.Len())
		})
	}
}

func TestUseCase_Execute_StorageRejectionReloadsConflicts(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
	}{
		{name: "exclusion constraint", storeErr: fmt.Errorf("%w: Create: %v", contractRepo.ErrRangeTaken, &pq.Error{Code: "23P01"})},
		{name: "serialization failure", storeErr: fmt.Errorf("txmanager: commit: %w", &pq.Error{Code: "40001"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
			f.withVehicle(1, "5000", true)
			winnerRange, err := domain.ParseDateRange("2025-06-02", "2025-06-04")
			require.NoError(t, err)
			winner := &domain.Contract{ID: uuid.New(), VehicleID: 1, ClientID: 3, Range: winnerRange, Status: domain.StatusPending}
			f.repo.createErr = tt.storeErr
			f.repo.concurrent = winner

			_, err = f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

			require.ErrorIs(t, err, domain.ErrVehicleUnavailable)
			var unavailable *domain.UnavailableError
			require.True(t, errors.As(err, &unavailable))
			assert.Equal(t, int64(1), unavailable.VehicleID)
			assert.Equal(t, "2025-06-01", domain.DayKey(unavailable.Range.Start()))
			require.Len(t, unavailable.Conflicts, 1)
			assert.Equal(t, winner.ID, unavailable.Conflicts[0].ID)
			assert.Empty(t, f.cache.invalidated)
		})
	}
}

func TestUseCase_Execute_LockTimeout(t *testing.T) {
	f := newFixture(t)
	f.uc.lockTimeout = 20 * time.Millisecond
	f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
	f.withVehicle(1, "5000", true)

	unlock, err := f.locker.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlock()

	_, err = f.uc.Execute(context.Background(), request("2025-06-01", "2025-06-03"))

	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, domain.KindConcurrencyConflict, domain.KindOf(err))
	assert.Equal(t, 0, f.repo.count())
}

func TestUseCase_Execute_ConcurrentOverlappingRequests(t *testing.T) {
	f := newFixture(t)
	f.repo.delay = 20 * time.Millisecond
	f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
	f.withVehicle(1, "5000", true)

	ranges := [][2]string{{"2025-06-01", "2025-06-04"}, {"2025-06-03", "2025-06-06"}}
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, rg := range ranges {
		wg.Add(1)
		go func(i int, start, end string) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), request(start, end))
		}(i, rg[0], rg[1])
	}
	wg.Wait()

	succeeded, unavailable := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrVehicleUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, unavailable)
	assert.Equal(t, 1, f.repo.count())
}

func TestUseCase_Execute_DifferentVehiclesInParallel(t *testing.T) {
	f := newFixture(t)
	f.clients.On("ClientExists", mock.Anything, int64(2)).Return(true, nil)
	f.withVehicle(1, "5000", true)
	f.withVehicle(2, "4000", true)

	// Пока автомобиль 1 заблокирован, бронирование автомобиля 2 проходит
	unlock, err := f.locker.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlock()

	req := request("2025-06-01", "2025-06-03")
	req.VehicleID = 2
	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Contract.VehicleID)
}
