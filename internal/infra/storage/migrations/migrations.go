// Package migrations применяет встроенную SQL-схему сервиса.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
)

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrReadMigrations возвращается, если встроенные файлы не читаются
	ErrReadMigrations = errors.New("migrations: failed to read embedded files")

	// ErrApply возвращается при ошибке применения миграции
	ErrApply = errors.New("migrations: failed to apply migration")
)

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migration одна встроенная миграция
type Migration struct {
	Version string
	SQL     string
}

// List возвращает миграции в порядке применения
func List() ([]Migration, error) {
	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMigrations, err)
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadMigrations, name, err)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(strings.TrimPrefix(name, "sql/"), ".sql"),
			SQL:     string(body),
		})
	}
	return migrations, nil
}

// Migrator применяет еще не примененные миграции, каждую в своей транзакции
type Migrator struct {
	db        dbmetrics.DBExecutor
	txManager TransactionManager
	logger    Logger
}

// NewMigrator создает мигратор
func NewMigrator(db dbmetrics.DBExecutor, txManager TransactionManager, logger Logger) *Migrator {
	return &Migrator{db: db, txManager: txManager, logger: logger}
}

// Up применяет все новые миграции и возвращает количество примененных
func (m *Migrator) Up(ctx context.Context) (int, error) {
	migrations, err := List()
	if err != nil {
		return 0, err
	}

	if _, err := m.db.ExecContext(ctx, createVersionsTable); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrApply, err)
	}

	applied := 0
	for _, mig := range migrations {
		done := false
		err := m.txManager.Do(ctx, func(txCtx context.Context) error {
			executor := dbmetrics.GetExecutor(txCtx, m.db)

			var exists bool
			err := executor.QueryRowContext(txCtx,
				"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", mig.Version).Scan(&exists)
			if err != nil {
				return fmt.Errorf("%w: %s: check version: %v", ErrApply, mig.Version, err)
			}
			if exists {
				return nil
			}

			if _, err := executor.ExecContext(txCtx, mig.SQL); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrApply, mig.Version, err)
			}
			if _, err := executor.ExecContext(txCtx,
				"INSERT INTO schema_migrations (version) VALUES ($1)", mig.Version); err != nil {
				return fmt.Errorf("%w: %s: record version: %v", ErrApply, mig.Version, err)
			}
			done = true
			return nil
		})
		if err != nil {
			return applied, err
		}

		if done {
			applied++
			m.logger.Info("Migrate: applied %s", mig.Version)
		}
	}

	return applied, nil
}
