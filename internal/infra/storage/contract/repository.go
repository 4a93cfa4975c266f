package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

const table = "rental_contracts"

var columns = []string{
	"id",
	"vehicle_id",
	"client_id",
	"start_date",
	"end_date",
	"daily_rate",
	"accessories",
	"total_price",
	"deposit",
	"status",
	"payment_status",
	"created_at",
	"updated_at",
}

// accessoryRow формат опции в колонке accessories (JSONB)
type accessoryRow struct {
	Name            string          `json:"name"`
	UnitPricePerDay decimal.Decimal `json:"unitPricePerDay"`
	Quantity        int             `json:"quantity"`
}

// Repository репозиторий договоров аренды
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория договоров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый договор.
// Если в контексте есть транзакция, использует её.
// Пересечение интервалов, отвергнутое ограничением исключения, возвращается как ErrRangeTaken.
func (r *Repository) Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	accessories, err := encodeAccessories(c.Accessories)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"vehicle_id",
			"client_id",
			"start_date",
			"end_date",
			"daily_rate",
			"accessories",
			"total_price",
			"deposit",
			"status",
			"payment_status",
		).
		Values(
			c.ID,
			c.VehicleID,
			c.ClientID,
			domain.DayKey(c.Range.Start()),
			domain.DayKey(c.Range.End()),
			c.DailyRate,
			accessories,
			c.TotalPrice,
			c.Deposit,
			c.Status,
			c.PaymentStatus,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if known := Classify(err); known != nil {
			return nil, fmt.Errorf("%w: Create - vehicle=%d: %v", known, c.VehicleID, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return c, nil
}

// GetByID получает договор по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanContract(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan contract: %v", ErrScanRow, err)
	}

	return c, nil
}

// ListByVehicle получает договоры автомобиля, отсортированные по дате начала.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка доступности и запись шли под одной блокировкой.
func (r *Repository) ListByVehicle(ctx context.Context, filter domain.VehicleContractsFilter) ([]*domain.Contract, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"vehicle_id": filter.VehicleID}).
		OrderBy("start_date ASC", "created_at ASC")

	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"end_date": domain.DayKey(*filter.From)})
	}

	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_date": domain.DayKey(*filter.To)})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByVehicle - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if known := Classify(err); known != nil {
			return nil, fmt.Errorf("%w: ListByVehicle - vehicle=%d: %v", known, filter.VehicleID, err)
		}
		return nil, fmt.Errorf("%w: ListByVehicle - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByVehicle - scan contract: %v", ErrScanRow, err)
		}
		contracts = append(contracts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByVehicle - rows iteration: %v", ErrScanRow, err)
	}

	return contracts, nil
}

// Update сохраняет изменяемые поля договора: интервал, опции, суммы и статусы.
// id, автомобиль, клиент и тариф не меняются.
func (r *Repository) Update(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	accessories, err := encodeAccessories(c.Accessories)
	if err != nil {
		return nil, err
	}

	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query, args, err := psqlbuilder.Update(table).
		Set("start_date", domain.DayKey(c.Range.Start())).
		Set("end_date", domain.DayKey(c.Range.End())).
		Set("accessories", accessories).
		Set("total_price", c.TotalPrice).
		Set("deposit", c.Deposit).
		Set("status", c.Status).
		Set("payment_status", c.PaymentStatus).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		if known := Classify(err); known != nil {
			return nil, fmt.Errorf("%w: Update - contract=%s: %v", known, c.ID, err)
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return c, nil
}

// LockVehicle берет транзакционную advisory-блокировку автомобиля.
// Блокировка снимается при коммите или откате, поэтому вызывать можно только внутри транзакции.
func (r *Repository) LockVehicle(ctx context.Context, vehicleID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockVehicle - vehicle=%d", ErrTransaction, vehicleID)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", vehicleID); err != nil {
		if known := Classify(err); known != nil {
			return fmt.Errorf("%w: LockVehicle - vehicle=%d: %v", known, vehicleID, err)
		}
		return fmt.Errorf("%w: LockVehicle - vehicle=%d: %v", ErrExecQuery, vehicleID, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContract(row rowScanner) (*domain.Contract, error) {
	var (
		c                    domain.Contract
		start, end           time.Time
		accessories          []byte
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&c.ID,
		&c.VehicleID,
		&c.ClientID,
		&start,
		&end,
		&c.DailyRate,
		&accessories,
		&c.TotalPrice,
		&c.Deposit,
		&c.Status,
		&c.PaymentStatus,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Range, err = domain.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	c.Accessories, err = decodeAccessories(accessories)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

func encodeAccessories(accessories []domain.Accessory) ([]byte, error) {
	rows := make([]accessoryRow, 0, len(accessories))
	for _, a := range accessories {
		rows = append(rows, accessoryRow{
			Name:            a.Name,
			UnitPricePerDay: a.UnitPricePerDay,
			Quantity:        a.Quantity,
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

func decodeAccessories(data []byte) ([]domain.Accessory, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var rows []accessoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode accessories: %w", err)
	}

	accessories := make([]domain.Accessory, 0, len(rows))
	for _, row := range rows {
		accessories = append(accessories, domain.Accessory{
			Name:            row.Name,
			UnitPricePerDay: row.UnitPricePerDay,
			Quantity:        row.Quantity,
		})
	}
	return accessories, nil
}
