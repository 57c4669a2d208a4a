package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := NewInMemoryMetrics()

	err := TimeOperation(context.Background(), logger, metrics, "tasks.delete", func() error {
		return errors.New("connection reset")
	})
	require.Error(t, err)

	tag := T(OperationKey, "tasks.delete")
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationErrors, tag))
	assert.Len(t, metrics.GetTimings(MetricOperationDuration, tag), 1)
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestTimeOperationResult(t *testing.T) {
	metrics := NewInMemoryMetrics()

	n, err := TimeOperationResult(context.Background(), nil, metrics, "tasks.list", func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	tag := T(OperationKey, "tasks.list")
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(0), metrics.GetCounter(MetricOperationErrors, tag))
}

func TestTimerWithTags(t *testing.T) {
	metrics := NewInMemoryMetrics()
	elapsed := StartTimer("http", nil, metrics, T("route", "tasks")).Observe(context.Background(), nil)
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))

	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T("route", "tasks"), T(OperationKey, "http")))
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "req-1", "")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "req-1", CorrelationIDFromContext(ctx))

	ctx = NewRequestContext(context.Background(), "", "corr-9")
	assert.NotEmpty(t, RequestIDFromContext(ctx))
	assert.Equal(t, "corr-9", CorrelationIDFromContext(ctx))

	assert.Empty(t, RequestIDFromContext(context.Background()))
}
