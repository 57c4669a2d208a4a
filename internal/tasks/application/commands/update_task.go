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

// UpdateTaskCommand replaces every mutable field of an existing task.
type UpdateTaskCommand struct {
	TaskID      string
	Title       string
	Description string
	DueDate     time.Time
}

func (UpdateTaskCommand) CommandName() string { return "tasks.update" }

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo task.Repository
	events   eventPublisher
	logger   *slog.Logger
	metrics  observability.Metrics
}

var _ sharedApplication.CommandHandler[UpdateTaskCommand, task.Task] = (*UpdateTaskHandler)(nil)

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *UpdateTaskHandler {
	events := newEventPublisher(publisher, logger, metrics)
	return &UpdateTaskHandler{
		taskRepo: taskRepo,
		events:   events,
		logger:   events.logger,
		metrics:  events.metrics,
	}
}

// Handle replaces the task and returns the record as written. The command's
// TaskID always wins. A missing task yields task.ErrTaskNotFound and is
// never created.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (task.Task, error) {
	t := task.Task{
		ID:          cmd.TaskID,
		Title:       cmd.Title,
		Description: cmd.Description,
		DueDate:     task.NormalizeDueDate(cmd.DueDate),
	}
	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}

	found, err := observability.TimeOperationResult(ctx, h.logger, h.metrics, cmd.CommandName(), func() (bool, error) {
		return h.taskRepo.UpdateTask(ctx, t.ID, t)
	})
	if err != nil {
		return task.Task{}, err
	}
	if !found {
		h.metrics.Counter(observability.MetricTasksNotFound, 1, observability.T(observability.OperationKey, cmd.CommandName()))
		return task.Task{}, task.ErrTaskNotFound
	}

	h.metrics.Counter(observability.MetricTasksUpdated, 1)
	h.logger.InfoContext(ctx, "task updated", "task_id", t.ID)

	event := task.NewTaskUpdated(t)
	event.SetMetadata(sharedApplication.EventMetadataFromContext(ctx))
	h.events.publish(ctx, event)

	return t, nil
}
