package observability

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	correlationIDCtx ctxKey = iota
	requestIDCtx
)

// Attribute keys shared by log records and metric tags.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
	StatusKey        = "status"
)

// Headers that carry the ids between processes.
const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"
)

func withID(ctx context.Context, key ctxKey, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}

// WithCorrelationID stores id on ctx, generating a UUID when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withID(ctx, correlationIDCtx, id)
}

// CorrelationIDFromContext returns the correlation id or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDCtx)
}

// WithRequestID stores id on ctx, generating a UUID when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withID(ctx, requestIDCtx, id)
}

// RequestIDFromContext returns the request id or "".
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDCtx)
}

// NewRequestContext attaches both ids. An empty correlation id takes the
// request id's value.
func NewRequestContext(ctx context.Context, requestID, correlationID string) context.Context {
	ctx = WithRequestID(ctx, requestID)
	if correlationID == "" {
		correlationID = RequestIDFromContext(ctx)
	}
	return WithCorrelationID(ctx, correlationID)
}
