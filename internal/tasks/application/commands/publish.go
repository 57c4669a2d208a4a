package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/taskboard/internal/shared/domain"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// eventPublisher emits task events after a successful write. Publishing is
// best effort: a failure is logged and counted but never fails the command.
type eventPublisher struct {
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

func newEventPublisher(p eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) eventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return eventPublisher{publisher: p, logger: logger, metrics: metrics}
}

func (e eventPublisher) publish(ctx context.Context, event domain.DomainEvent) {
	if e.publisher == nil {
		return
	}

	tag := observability.T("routing_key", event.RoutingKey())
	if err := eventbus.PublishDomainEvent(ctx, e.publisher, event); err != nil {
		e.metrics.Counter(observability.MetricEventsPublishFailed, 1, tag)
		e.logger.WarnContext(ctx, "failed to publish task event",
			"routing_key", event.RoutingKey(),
			"task_id", event.AggregateID(),
			"error", err,
		)
		return
	}
	e.metrics.Counter(observability.MetricEventsPublished, 1, tag)
}
