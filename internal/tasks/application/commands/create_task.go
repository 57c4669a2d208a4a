package commands

import (
	"context"
	"log/slog"
	"time"

	sharedApplication "github.com/felixgeelhaar/taskboard/internal/shared/application"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title       string
	Description string
	DueDate     time.Time
}

func (CreateTaskCommand) CommandName() string { return "tasks.create" }

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo task.Repository
	events   eventPublisher
	logger   *slog.Logger
	metrics  observability.Metrics
}

var _ sharedApplication.CommandHandler[CreateTaskCommand, task.Task] = (*CreateTaskHandler)(nil)

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *CreateTaskHandler {
	events := newEventPublisher(publisher, logger, metrics)
	return &CreateTaskHandler{
		taskRepo: taskRepo,
		events:   events,
		logger:   events.logger,
		metrics:  events.metrics,
	}
}

// Handle assigns a fresh id, stores the task and returns it as stored.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (task.Task, error) {
	t, err := task.NewTask(cmd.Title, cmd.Description, cmd.DueDate)
	if err != nil {
		return task.Task{}, err
	}

	err = observability.TimeOperation(ctx, h.logger, h.metrics, cmd.CommandName(), func() error {
		return h.taskRepo.CreateTask(ctx, t)
	})
	if err != nil {
		return task.Task{}, err
	}

	h.metrics.Counter(observability.MetricTasksCreated, 1)
	h.logger.InfoContext(ctx, "task created", "task_id", t.ID)

	event := task.NewTaskCreated(t)
	event.SetMetadata(sharedApplication.EventMetadataFromContext(ctx))
	h.events.publish(ctx, event)

	return t, nil
}
