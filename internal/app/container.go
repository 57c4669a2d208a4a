package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/commands"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/consumers"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/queries"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Infrastructure
	Storage        *Storage
	TaskRepo       task.Repository
	EventPublisher eventbus.Publisher

	// Task Command Handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Task Query Handlers
	ListTasksHandler *queries.ListTasksHandler
}

// NewContainer opens the configured storage and event publisher and wires
// the task handlers on top of them.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NoopMetrics{},
		Health:  observability.NewHealthRegistry(),
	}

	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Storage = storage
	c.TaskRepo = storage.Repository
	c.Health.Register("storage", observability.PingHealthChecker("storage", true, storage.Ping))

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		_ = storage.Close(ctx)
		return nil, err
	}
	c.EventPublisher = publisher
	if broker, ok := publisher.(*eventbus.RabbitMQPublisher); ok {
		c.Health.Register("broker", observability.PingHealthChecker("broker", false, broker.Ping))
	}

	c.wireHandlers()
	return c, nil
}

// newPublisher connects to RabbitMQ when configured. Without a broker, events
// stay in process and are only written to the activity log.
func newPublisher(cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, error) {
	if !cfg.EventsEnabled() {
		logger.Info("RabbitMQ not configured, task events stay in process")
		return newActivityBus(logger), nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, task events stay in process", "error", err)
			return newActivityBus(logger), nil
		}
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return publisher, nil
}

func newActivityBus(logger *slog.Logger) *eventbus.InProcessEventBus {
	bus := eventbus.NewInProcessEventBus(logger)
	bus.RegisterConsumer(consumers.NewActivityLogger(logger))
	return bus
}

func (c *Container) wireHandlers() {
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger, c.Metrics)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger, c.Metrics)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo, c.EventPublisher, c.Logger, c.Metrics)
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo, c.Logger, c.Metrics)
}

// Close releases the publisher and the storage connection. It must be
// called before the process exits.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Storage.Close(ctx); err != nil {
			c.Logger.Warn("error closing storage", "driver", c.Storage.Driver.String(), "error", err)
		} else {
			c.Logger.Info("storage closed", "driver", c.Storage.Driver.String())
		}
	}
}
