// Package consumers holds event consumers that react to task changes.
package consumers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
)

// ActivityLogger writes one structured log line per task event.
type ActivityLogger struct {
	logger *slog.Logger
}

// NewActivityLogger creates an ActivityLogger.
func NewActivityLogger(logger *slog.Logger) *ActivityLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLogger{logger: logger.With("component", "activity")}
}

func (a *ActivityLogger) EventTypes() []string {
	return []string{"tasks.task.*"}
}

func (a *ActivityLogger) Handle(ctx context.Context, event *eventbus.Event) error {
	a.logger.InfoContext(ctx, "task activity",
		"routing_key", event.RoutingKey,
		"task_id", event.AggregateID,
		"event_id", event.EventID,
		"occurred_at", event.OccurredAt,
		"correlation_id", event.Metadata.CorrelationID,
	)
	return nil
}
