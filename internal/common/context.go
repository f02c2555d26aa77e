package common

import "context"

// correlationIDKey is the context key for the per-request correlation ID.
type correlationIDKey struct{}

// WithCorrelationID returns a new context carrying the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID extracts the correlation ID from ctx, or "" when absent.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// ForContext returns logger tagged with the request's correlation ID, if any.
func ForContext(ctx context.Context, logger *Logger) *Logger {
	if logger == nil {
		return NewSilentLogger()
	}
	if id := CorrelationID(ctx); id != "" {
		return logger.WithCorrelationId(id)
	}
	return logger
}
