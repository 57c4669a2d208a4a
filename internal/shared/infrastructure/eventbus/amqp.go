package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the durable topic exchange that carries task events.
const ExchangeName = "taskboard.events"

// amqpSession is one broker connection with a single channel on which the
// exchange has been declared.
type amqpSession struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func openSession(url, exchange string) (*amqpSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &amqpSession{conn: conn, ch: ch, exchange: exchange}, nil
}

// ping fails once the broker has closed the connection or the channel.
func (s *amqpSession) ping() error {
	if s.conn.IsClosed() || s.ch.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

// close tears down the connection; its channel goes with it.
func (s *amqpSession) close() error {
	if s.conn.IsClosed() {
		return nil
	}
	return s.conn.Close()
}

// decodeEvent parses a bus payload, falling back to the transport routing key.
func decodeEvent(routingKey string, payload []byte) (*Event, error) {
	event := &Event{}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return event, nil
}

// dispatchLogged hands event to the registry and logs the outcome with its latency.
func dispatchLogged(ctx context.Context, registry *ConsumerRegistry, logger *slog.Logger, event *Event) error {
	start := time.Now()
	err := registry.Dispatch(ctx, event)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		logger.ErrorContext(ctx, "event dispatch failed",
			"routing_key", event.RoutingKey,
			"task_id", event.AggregateID,
			"duration_ms", elapsed,
			"error", err,
		)
		return err
	}

	logger.DebugContext(ctx, "event dispatched",
		"routing_key", event.RoutingKey,
		"task_id", event.AggregateID,
		"duration_ms", elapsed,
	)
	return nil
}
