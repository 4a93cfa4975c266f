package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-RentalService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить встроенные SQL миграции",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()
	defer db.Close()

	wrapped := dbmetrics.Wrap(db)
	migrator := migrations.NewMigrator(wrapped, txmanager.NewTransactionManager(wrapped), log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	applied, err := migrator.Up(ctx)
	if err != nil {
		log.Error("Migrate: failed after %d migration(s): %v", applied, err)
		return err
	}

	log.Info("Migrate: applied %d migration(s)", applied)
	return nil
}
