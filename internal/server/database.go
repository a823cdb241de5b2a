package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
)

// ConnectDB opens the configured database, pings it and, when
// DB_AUTO_MIGRATE is set, creates missing tables.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repository.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := repository.Open(ctx, repository.ConfigFrom(cfg), logger)
	if err != nil {
		return nil, err
	}
	if err := PingDB(ctx, store, logger, cfg.DialTimeout); err != nil {
		CloseDB(store, logger)
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			CloseDB(store, logger)
			return nil, err
		}
	}
	return store, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, store *repository.Store, logger *slog.Logger, timeout time.Duration) error {
	logger.Debug("pinging database")
	if err := store.HealthCheck(ctx, timeout); err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// CloseDB closes the database connections gracefully
func CloseDB(store *repository.Store, logger *slog.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
