package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// InProcessEventBus delivers events synchronously to consumers in the same
// process. It backs the publisher when no broker is configured.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessEventBus creates an empty bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer adds consumer to the bus.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes payload and dispatches it to matching consumers.
// Undecodable payloads and consumer failures are logged, never returned,
// so a consumer cannot fail the write that produced the event.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	event, err := decodeEvent(routingKey, payload)
	if err != nil {
		b.logger.ErrorContext(ctx, "discarding undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}

	_ = dispatchLogged(ctx, b.registry, b.logger, event)
	return nil
}

// Close is a no-op.
func (b *InProcessEventBus) Close() error {
	return nil
}

// Registry returns the underlying consumer registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}
