package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса аренды
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	FleetService  ServiceClientConfig `toml:"fleet_service"`
	ClientService ServiceClientConfig `toml:"client_service"`
	Reservations  ReservationsConfig  `toml:"reservations"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ServiceClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// TimeoutDuration таймаут запроса к сервису
func (s ServiceClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

type ReservationsConfig struct {
	// Сколько ждать блокировку автомобиля перед ответом ConcurrencyConflict
	LockTimeoutMs int `toml:"lock_timeout_ms"`
	// Время жизни кэша календарей; отрицательное значение отключает устаревание (один экземпляр)
	AvailabilityCacheTTLMs int `toml:"availability_cache_ttl_ms"`
}

// LockTimeout таймаут ожидания блокировки автомобиля
func (r ReservationsConfig) LockTimeout() time.Duration {
	return time.Duration(r.LockTimeoutMs) * time.Millisecond
}

// AvailabilityCacheTTL время жизни индекса доступности в кэше
func (r ReservationsConfig) AvailabilityCacheTTL() time.Duration {
	if r.AvailabilityCacheTTLMs < 0 {
		return 0
	}
	return time.Duration(r.AvailabilityCacheTTLMs) * time.Millisecond
}

// Load читает TOML файл, применяет значения по умолчанию и переменные окружения RENTAL_*
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "rental-service"
	}

	if c.FleetService.Timeout == 0 {
		c.FleetService.Timeout = 5
	}
	if c.ClientService.Timeout == 0 {
		c.ClientService.Timeout = 5
	}

	if c.Reservations.LockTimeoutMs == 0 {
		c.Reservations.LockTimeoutMs = 3000
	}
	if c.Reservations.AvailabilityCacheTTLMs == 0 {
		c.Reservations.AvailabilityCacheTTLMs = 5000
	}
}

// applyEnv переопределяет адреса и секреты из окружения
func (c *Config) applyEnv() error {
	overrideString("RENTAL_DB_HOST", &c.Database.Host)
	overrideString("RENTAL_DB_USER", &c.Database.User)
	overrideString("RENTAL_DB_PASSWORD", &c.Database.Password)
	overrideString("RENTAL_DB_NAME", &c.Database.DBName)
	overrideString("RENTAL_DB_SSLMODE", &c.Database.SSLMode)
	overrideString("RENTAL_FLEET_SERVICE_URL", &c.FleetService.URL)
	overrideString("RENTAL_CLIENT_SERVICE_URL", &c.ClientService.URL)
	overrideString("RENTAL_LOG_LEVEL", &c.Logs.Level)

	if err := overrideInt("RENTAL_DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := overrideInt("RENTAL_HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}
	if err := overrideInt("RENTAL_LOCK_TIMEOUT_MS", &c.Reservations.LockTimeoutMs); err != nil {
		return err
	}
	return overrideInt("RENTAL_AVAILABILITY_CACHE_TTL_MS", &c.Reservations.AvailabilityCacheTTLMs)
}

func overrideString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, errors.New("database.max_idle_conns must not exceed max_open_conns"))
	}
	if c.FleetService.URL == "" {
		errs = append(errs, errors.New("fleet_service.url is required"))
	}
	if c.ClientService.URL == "" {
		errs = append(errs, errors.New("client_service.url is required"))
	}
	if c.Reservations.LockTimeoutMs < 0 {
		errs = append(errs, errors.New("reservations.lock_timeout_ms must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
