package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// SweepIDKey is the context key for the reconciliation sweep ID
	SweepIDKey contextKey = "sweep_id"
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

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enrichedLogger := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithSweepID tags everything logged during one sweep, including the
// activation jobs and transitions it drives.
func WithSweepID(ctx context.Context, logger *zap.Logger, sweepID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, SweepIDKey, sweepID)
	enrichedLogger := logger.With(zap.String("sweep_id", sweepID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetSweepID retrieves the sweep ID from context
func GetSweepID(ctx context.Context) string {
	if sweepID, ok := ctx.Value(SweepIDKey).(string); ok {
		return sweepID
	}
	return ""
}

// Fields returns the correlation fields present in ctx
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if sweepID := GetSweepID(ctx); sweepID != "" {
		fields = append(fields, zap.String("sweep_id", sweepID))
	}
	return fields
}
