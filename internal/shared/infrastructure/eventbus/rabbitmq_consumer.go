package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrConsumerRunning is returned when Start is called twice.
var ErrConsumerRunning = errors.New("consumer already running")

// RabbitMQConsumerConfig configures a RabbitMQConsumer.
// An empty QueueName declares a server-named exclusive queue that is
// removed when the consumer disconnects; a named queue is durable.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	Logger    *slog.Logger
}

// RabbitMQConsumer reads task events from a queue bound to the exchange and
// dispatches them through a ConsumerRegistry.
type RabbitMQConsumer struct {
	session  *amqpSession
	queue    string
	registry *ConsumerRegistry
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewRabbitMQConsumer dials the broker and declares the queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}

	session, err := openSession(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}

	transient := cfg.QueueName == ""
	q, err := session.ch.QueueDeclare(cfg.QueueName, !transient, transient, transient, false, nil)
	if err != nil {
		_ = session.close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.QueueName, err)
	}

	cfg.Logger.Info("RabbitMQ consumer connected", "queue", q.Name, "exchange", cfg.Exchange)
	return &RabbitMQConsumer{
		session:  session,
		queue:    q.Name,
		registry: registry,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}, nil
}

// Queue returns the declared queue name, which the broker picks for transient queues.
func (c *RabbitMQConsumer) Queue() string {
	return c.queue
}

// RegisterConsumer adds consumer to the registry and binds the queue to each
// of its patterns. A failed binding is logged; the consumer stays registered.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pattern := range consumer.EventTypes() {
		if err := c.session.ch.QueueBind(c.queue, pattern, c.session.exchange, false, nil); err != nil {
			c.logger.Error("failed to bind queue", "queue", c.queue, "pattern", pattern, "error", err)
			continue
		}
		c.logger.Debug("queue bound", "queue", c.queue, "pattern", pattern)
	}
}

// Start consumes one message at a time until ctx is done or Close is called.
// A message whose handling fails is requeued; an undecodable one is dropped.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrConsumerRunning
	}
	c.running = true
	c.mu.Unlock()

	if err := c.session.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := c.session.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.logger.Info("consuming task events", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", c.queue)
			}
			c.settle(ctx, msg)
		}
	}
}

func (c *RabbitMQConsumer) settle(ctx context.Context, msg amqp.Delivery) {
	event, err := decodeEvent(msg.RoutingKey, msg.Body)
	if err != nil {
		c.logger.Error("dropping undecodable event", "routing_key", msg.RoutingKey, "error", err)
		if err := msg.Ack(false); err != nil {
			c.logger.Error("failed to ack message", "error", err)
		}
		return
	}

	if err := dispatchLogged(ctx, c.registry, c.logger, event); err != nil {
		if err := msg.Nack(false, true); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}

// Ping reports whether the broker connection is still open.
func (c *RabbitMQConsumer) Ping(context.Context) error {
	return c.session.ping()
}

// Close stops Start and closes the connection.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	c.running = false

	if err := c.session.close(); err != nil {
		return err
	}
	c.logger.Info("RabbitMQ consumer closed")
	return nil
}
