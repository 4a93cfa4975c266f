package migrations

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

func TestList(t *testing.T) {
	migrations, err := List()

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "0001_rental_contracts", migrations[0].Version)
	assert.True(t, strings.Contains(migrations[0].SQL, "EXCLUDE USING gist"))
	assert.True(t, strings.Contains(migrations[0].SQL, "daterange(start_date, end_date, '[]')"))
}

func TestMigrator_Up(t *testing.T) {
	newMigrator := func(t *testing.T) (*Migrator, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		wrapped := dbmetrics.Wrap(db)
		return NewMigrator(wrapped, txmanager.NewTransactionManager(wrapped), nopLogger{}), mock
	}

	t.Run("applies new migration", func(t *testing.T) {
		m, mock := newMigrator(t)

		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs("0001_rental_contracts").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION IF NOT EXISTS btree_gist")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
			WithArgs("0001_rental_contracts").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		applied, err := m.Up(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips applied migration", func(t *testing.T) {
		m, mock := newMigrator(t)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectCommit()

		applied, err := m.Up(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back failed migration", func(t *testing.T) {
		m, mock := newMigrator(t)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION")).
			WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		_, err := m.Up(context.Background())

		assert.ErrorIs(t, err, ErrApply)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
