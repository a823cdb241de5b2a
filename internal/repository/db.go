package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
)

type Config struct {
	Driver           string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ConfigFrom maps the application database settings.
func ConfigFrom(c common.DatabaseConfig) Config {
	return Config{
		Driver:           c.Driver,
		DSN:              c.DSN,
		MaxConns:         c.MaxConns,
		MinConns:         c.MinConns,
		MaxConnLifetime:  c.MaxConnLifetime,
		MaxConnIdleTime:  c.MaxConnIdleTime,
		DialTimeout:      c.DialTimeout,
		StatementTimeout: c.StatementTimeout,
	}
}

// Store is the persistence collaborator: a database/sql handle wrapped by an
// ent driver, plus the dialect used to build statements.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// NewStore wraps an already-open handle.
func NewStore(db *sql.DB, dialectName string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		drv:     entsql.OpenDB(dialectName, db),
		dialect: dialectName,
		logger:  logger,
	}
}

// Open connects using the configured driver.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case common.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case common.DriverMySQL:
		return openMySQL(ctx, cfg, logger)
	case common.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unsupported database driver %q", cfg.Driver), common.ErrInvalidInput)
	}
}

// openPostgres creates a pgx pool and wraps it for ent.
func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	logger.Info("connecting to database", "driver", cfg.Driver)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "hr-bulk-import"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout(cfg))
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	// Wrap pool as *sql.DB for ent
	s := NewStore(stdlib.OpenDBFromPool(pool), dialect.Postgres, logger)
	s.pool = pool
	logger.Info("successfully connected to database", "driver", cfg.Driver)
	return s, nil
}

// openMySQL opens the go-sql-driver connector. ClientFoundRows makes
// RowsAffected report matched rows, which the ledger relies on.
func openMySQL(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	logger.Info("connecting to database", "driver", cfg.Driver)
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	mc.ClientFoundRows = true
	mc.ParseTime = true
	if mc.Timeout == 0 {
		mc.Timeout = dialTimeout(cfg)
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	db := sql.OpenDB(connector)
	applyPoolLimits(db, cfg)

	s := NewStore(db, dialect.MySQL, logger)
	if err := s.HealthCheck(ctx, dialTimeout(cfg)); err != nil {
		logger.Error("failed to connect to database", "error", err)
		_ = db.Close()
		return nil, err
	}
	logger.Info("successfully connected to database", "driver", cfg.Driver)
	return s, nil
}

// openSQLite opens a modernc SQLite file. An empty DSN is rejected; use
// OpenEphemeral for a throwaway database.
func openSQLite(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "DB_URL is required for sqlite", common.ErrInvalidInput)
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		logger.Error("failed to open sqlite database", "error", err)
		return nil, err
	}
	applyPoolLimits(db, cfg)

	s := NewStore(db, dialect.SQLite, logger)
	if err := s.HealthCheck(ctx, dialTimeout(cfg)); err != nil {
		logger.Error("failed to open sqlite database", "error", err)
		_ = db.Close()
		return nil, err
	}
	logger.Info("opened sqlite database")
	return s, nil
}

// SQLiteDSN builds a modernc DSN for a database file with foreign keys,
// WAL journaling and a busy timeout so concurrent writers queue up.
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(10000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + filepath.ToSlash(path) + "?" + q.Encode()
}

// OpenEphemeral creates a SQLite database in a fresh temp directory and
// migrates it. cleanup closes the store and removes the directory.
func OpenEphemeral(ctx context.Context, logger *slog.Logger) (*Store, func(), error) {
	dir, err := os.MkdirTemp("", "hr-bulk-import-*")
	if err != nil {
		return nil, nil, err
	}
	s, err := Open(ctx, Config{Driver: common.DriverSQLite, DSN: SQLiteDSN(filepath.Join(dir, "import.db"))}, logger)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		_ = os.RemoveAll(dir)
		return nil, nil, err
	}
	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(dir)
	}
	return s, cleanup, nil
}

func applyPoolLimits(db *sql.DB, cfg Config) {
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(int(cfg.MinConns))
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}
}

func dialTimeout(cfg Config) time.Duration {
	if cfg.DialTimeout > 0 {
		return cfg.DialTimeout
	}
	return 5 * time.Second
}

// Dialect returns the ent dialect name.
func (s *Store) Dialect() string { return s.dialect }

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connections gracefully
func (s *Store) Close() error {
	s.logger.Info("closing database connections")
	err := s.drv.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	if err != nil {
		s.logger.Error("failed to close database", "error", err)
		return err
	}
	s.logger.Info("database connections closed")
	return nil
}

// HealthCheck pings using database/sql to catch DSN issues early.
func (s *Store) HealthCheck(ctx context.Context, timeout time.Duration) error {
	s.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.db.PingContext(ctx); err != nil {
		return classify(err)
	}
	s.logger.Debug("database ping successful")
	return nil
}
