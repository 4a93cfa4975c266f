// Package command содержит cobra-команды сервиса аренды:
//
//	rentald serve   [-c config.toml]   # HTTP сервер
//	rentald migrate [-c config.toml]   # применение схемы БД
package command

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

const defaultConfigPath = "config.toml"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "rentald",
	Short: "Сервис бронирования и доступности автомобилей",
	// Без подкоманды запускаем сервер
	RunE: runServe,
}

// Execute разбирает аргументы и выполняет выбранную команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadEnv)
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "путь к config.toml")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadEnv подхватывает .env, если он есть, и путь к конфигу из CONFIG_FILE
func loadEnv() {
	_ = godotenv.Load()

	if cfgPath != "" {
		return
	}
	if p, ok := os.LookupEnv("CONFIG_FILE"); ok && p != "" {
		cfgPath = p
		return
	}
	cfgPath = defaultConfigPath
}

// bootstrap загружает конфигурацию, логгер и соединение с БД
func bootstrap() (*config.Config, *logger.Logger, *sql.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", cfgPath)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		log.Close()
		return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	return cfg, log, db, nil
}
