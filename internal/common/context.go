package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyJobID  contextKey = "job_id"
	ContextKeyRow    contextKey = "row"
	ContextKeyLogger contextKey = "logger"
)

// WithJobID adds an import job ID to the context
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, ContextKeyJobID, jobID)
}

// JobIDFromContext extracts the import job ID from context
func JobIDFromContext(ctx context.Context) string {
	if jobID, ok := ctx.Value(ContextKeyJobID).(string); ok {
		return jobID
	}
	return ""
}

// WithRow adds the spreadsheet row number being processed to the context
func WithRow(ctx context.Context, row int) context.Context {
	return context.WithValue(ctx, ContextKeyRow, row)
}

// RowFromContext extracts the spreadsheet row number, 0 when unset
func RowFromContext(ctx context.Context) int {
	if row, ok := ctx.Value(ContextKeyRow).(int); ok {
		return row
	}
	return 0
}

// WithLogger stores a logger in the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

// LoggerFromContext returns the context logger annotated with job and row,
// falling back to slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		logger = slog.Default()
	}
	return AnnotateLogger(ctx, logger)
}

// AnnotateLogger adds the job and row carried by ctx to logger.
func AnnotateLogger(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := JobIDFromContext(ctx); id != "" {
		logger = logger.With("job_id", id)
	}
	if row := RowFromContext(ctx); row > 0 {
		logger = logger.With("row", row)
	}
	return logger
}
