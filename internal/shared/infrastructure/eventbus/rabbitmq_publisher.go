package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/taskboard/pkg/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("event publisher is closed")

// RabbitMQPublisher publishes task events to the topic exchange and waits for
// the broker to confirm each one.
type RabbitMQPublisher struct {
	session *amqpSession
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewRabbitMQPublisher dials url and puts the channel into confirm mode.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	session, err := openSession(url, ExchangeName)
	if err != nil {
		return nil, err
	}
	if err := session.ch.Confirm(false); err != nil {
		_ = session.close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	logger.Info("RabbitMQ publisher connected", "exchange", session.exchange)
	return &RabbitMQPublisher{session: session, logger: logger}, nil
}

// Publish sends payload as a persistent message and blocks until the broker
// acks it or ctx is done.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	confirm, err := p.session.ch.PublishWithDeferredConfirmWithContext(ctx,
		p.session.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now().UTC(),
			AppId:         "taskboard",
			CorrelationId: observability.CorrelationIDFromContext(ctx),
			Body:          payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm for %s: %w", routingKey, err)
	}
	if !acked {
		return fmt.Errorf("broker rejected %s", routingKey)
	}

	p.logger.DebugContext(ctx, "task event published", "routing_key", routingKey, "bytes", len(payload))
	return nil
}

// Ping reports whether the broker connection is still open.
func (p *RabbitMQPublisher) Ping(context.Context) error {
	return p.session.ping()
}

// Close shuts the connection down. Further publishes fail with ErrPublisherClosed.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.session.close(); err != nil {
		return err
	}
	p.logger.Info("RabbitMQ publisher closed")
	return nil
}
