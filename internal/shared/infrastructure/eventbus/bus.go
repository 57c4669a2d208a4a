// Package eventbus moves task events between processes. Events travel as a
// JSON Event envelope on a RabbitMQ topic exchange, or through an in-process
// bus when no broker is configured.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/taskboard/internal/shared/domain"
)

// Publisher sends an encoded envelope under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// Subscriber delivers envelopes to registered consumers. Start blocks until
// ctx ends or the transport fails.
type Subscriber interface {
	RegisterConsumer(consumer EventConsumer)
	Start(ctx context.Context) error
	Close() error
}

// EventConsumer handles the events whose routing keys match one of its
// patterns. Patterns use AMQP topic syntax: "tasks.task.created", "tasks.#".
type EventConsumer interface {
	EventTypes() []string
	Handle(ctx context.Context, event *Event) error
}

// ConsumerFunc is an EventConsumer built from a pattern list and a function.
type ConsumerFunc struct {
	Patterns []string
	Fn       func(ctx context.Context, event *Event) error
}

func (c ConsumerFunc) EventTypes() []string { return c.Patterns }

func (c ConsumerFunc) Handle(ctx context.Context, event *Event) error { return c.Fn(ctx, event) }

var (
	_ Publisher  = (*RabbitMQPublisher)(nil)
	_ Publisher  = (*InProcessEventBus)(nil)
	_ Subscriber = (*RabbitMQConsumer)(nil)
)

// PublishDomainEvent encodes event as an Event envelope and publishes it
// under the event's routing key.
func PublishDomainEvent(ctx context.Context, p Publisher, event domain.DomainEvent) error {
	env, err := NewEvent(event)
	if err != nil {
		return fmt.Errorf("build event envelope: %w", err)
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode event envelope: %w", err)
	}
	return p.Publish(ctx, env.RoutingKey, payload)
}
