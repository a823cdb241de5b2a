package common

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Import    ImportConfig
	Daemon    DaemonConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string        `env:"DB_DRIVER" envDefault:"mysql"`
	DSN              string        `env:"DB_URL"`
	MaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"20"`
	MinConns         int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime  time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`
	MaxConnIdleTime  time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DialTimeout      time.Duration `env:"DB_DIAL_TIMEOUT" envDefault:"5s"`
	StatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"0s"`
	AutoMigrate      bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

// ImportConfig holds pipeline tuning
type ImportConfig struct {
	Workers         int    `env:"IMPORT_WORKERS" envDefault:"5"`
	BatchUpdateSize int    `env:"BATCH_UPDATE_SIZE" envDefault:"10"`
	AliasesFile     string `env:"ALIASES_FILE"`
}

// DaemonConfig holds importd settings
type DaemonConfig struct {
	InboxDir    string        `env:"INBOX_DIR" envDefault:"./inbox"`
	OutboxDir   string        `env:"OUTBOX_DIR"`
	GRPCAddr    string        `env:"GRPC_ADDR" envDefault:":8080"`
	MetricsAddr string        `env:"METRICS_ADDR" envDefault:":9090"`
	QueueSize   int           `env:"IMPORT_QUEUE_SIZE" envDefault:"64"`
	JobWorkers  int           `env:"IMPORT_JOB_WORKERS" envDefault:"1"`
	JobTimeout  time.Duration `env:"IMPORT_JOB_TIMEOUT" envDefault:"30m"`
	Debounce    time.Duration `env:"INBOX_DEBOUNCE" envDefault:"2s"`
}

// EventsConfig holds the job event publisher settings
type EventsConfig struct {
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Queue       string `env:"RABBITMQ_QUEUE" envDefault:"import_job_events"`
}

// TelemetryConfig holds tracing settings
type TelemetryConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"hr-bulk-import"`
}

// LoadConfig loads .env files that exist and then parses the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "failed to read env files", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "failed to parse environment", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("DB_DRIVER", c.Database.Driver, OneOf(DriverPostgres, DriverMySQL, DriverSQLite)).
		Field("IMPORT_WORKERS", c.Import.Workers, Positive).
		Field("BATCH_UPDATE_SIZE", c.Import.BatchUpdateSize, Positive)
	if c.Database.Driver != DriverSQLite {
		v.Field("DB_URL", c.Database.DSN, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", "invalid configuration", v.Error())
	}
	return nil
}

// ValidateDaemon checks the settings only importd needs.
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}
	v := NewValidator().
		Field("INBOX_DIR", c.Daemon.InboxDir, Required).
		Field("GRPC_ADDR", c.Daemon.GRPCAddr, Required).
		Field("IMPORT_QUEUE_SIZE", c.Daemon.QueueSize, Positive).
		Field("IMPORT_JOB_WORKERS", c.Daemon.JobWorkers, Positive)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", "invalid configuration", v.Error())
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
