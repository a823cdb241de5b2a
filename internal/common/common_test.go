package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Import.Workers)
	assert.Equal(t, 10, cfg.Import.BatchUpdateSize)
	assert.Equal(t, "import_job_events", cfg.Events.Queue)
	assert.Equal(t, 30*time.Minute, cfg.Daemon.JobTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadConfig_EnvFileAndNormalization(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER= SQLite \nBATCH_UPDATE_SIZE=25\n"), 0o644))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "")
	require.NoError(t, os.Unsetenv("DB_DRIVER"))
	t.Setenv("BATCH_UPDATE_SIZE", "")
	require.NoError(t, os.Unsetenv("BATCH_UPDATE_SIZE"))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Import.BatchUpdateSize)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "oracle"},
		Import:   ImportConfig{Workers: 0, BatchUpdateSize: 10},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "IMPORT_WORKERS")

	cfg = &Config{
		Database: DatabaseConfig{Driver: DriverMySQL},
		Import:   ImportConfig{Workers: 2, BatchUpdateSize: 10},
		Daemon:   DaemonConfig{GRPCAddr: ":8080", QueueSize: 1, JobWorkers: 1},
	}
	assert.ErrorContains(t, cfg.Validate(), "DB_URL")
	cfg.Database.DSN = "user:pass@tcp(localhost:3306)/hr"
	assert.NoError(t, cfg.Validate())
	assert.ErrorContains(t, cfg.ValidateDaemon(), "INBOX_DIR")
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, Unavailable(err))
	assert.Nil(t, Unavailable(nil))

	assert.True(t, IsInfrastructure(err))
	assert.True(t, IsInfrastructure(WrapError(ErrJobNotFound, "increment")))
	assert.False(t, IsInfrastructure(ErrValidation))
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithRow(WithJobID(WithLogger(context.Background(), base), "job-7"), 12)
	assert.Equal(t, "job-7", JobIDFromContext(ctx))
	assert.Equal(t, 12, RowFromContext(ctx))

	LoggerFromContext(ctx).Info("import.row.failed")
	assert.Contains(t, buf.String(), `"job_id":"job-7"`)
	assert.Contains(t, buf.String(), `"row":12`)

	assert.Zero(t, RowFromContext(context.Background()))
	assert.NotNil(t, LoggerFromContext(context.Background()))
}
