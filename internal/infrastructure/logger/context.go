package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// SyncRunIDKey is the context key for the sync run ID
	SyncRunIDKey contextKey = "sync_run_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithSyncRunID adds the sync run ID to context and returns an enriched logger.
// Every log entry written through the returned logger carries the run ID, so
// one scheduled pass can be followed across packages.
func WithSyncRunID(ctx context.Context, logger *zap.Logger, runID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, SyncRunIDKey, runID)
	enriched := logger.With(zap.String("sync_run_id", runID))
	return WithContext(ctx, enriched), enriched
}

// GetSyncRunID retrieves the sync run ID from context
func GetSyncRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(SyncRunIDKey).(string); ok {
		return runID
	}
	return ""
}
