package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation. A nil logger or metrics collector is skipped.
type Timer struct {
	Operation string
	Logger    *slog.Logger
	Metrics   Metrics
	Tags      []Tag

	start time.Time
}

// StartTimer starts timing operation now.
func StartTimer(operation string, logger *slog.Logger, metrics Metrics, tags ...Tag) *Timer {
	return &Timer{
		Operation: operation,
		Logger:    logger,
		Metrics:   metrics,
		Tags:      tags,
		start:     time.Now(),
	}
}

// Elapsed reports the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Observe records the elapsed time under the operation metrics and logs the
// outcome: debug on success, error on failure.
func (t *Timer) Observe(ctx context.Context, err error) time.Duration {
	elapsed := t.Elapsed()
	if ctx == nil {
		ctx = context.Background()
	}

	if t.Logger != nil {
		attrs := []any{OperationKey, t.Operation, DurationKey, elapsed.Milliseconds()}
		if err != nil {
			t.Logger.ErrorContext(ctx, "operation failed", append(attrs, ErrorKey, err.Error())...)
		} else {
			t.Logger.DebugContext(ctx, "operation completed", attrs...)
		}
	}

	if t.Metrics != nil {
		tags := make([]Tag, 0, len(t.Tags)+1)
		tags = append(tags, t.Tags...)
		tags = append(tags, T(OperationKey, t.Operation))

		t.Metrics.Counter(MetricOperationTotal, 1, tags...)
		t.Metrics.Timing(MetricOperationDuration, elapsed, tags...)
		if err != nil {
			t.Metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}
	return elapsed
}

// TimeOperation runs fn under a Timer.
func TimeOperation(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() error) error {
	timer := StartTimer(operation, logger, metrics)
	err := fn()
	timer.Observe(ctx, err)
	return err
}

// TimeOperationResult is TimeOperation for functions that return a value.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation, logger, metrics)
	v, err := fn()
	timer.Observe(ctx, err)
	return v, err
}
