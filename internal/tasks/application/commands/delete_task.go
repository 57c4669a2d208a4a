package commands

import (
	"context"
	"log/slog"
	"strings"

	sharedApplication "github.com/felixgeelhaar/taskboard/internal/shared/application"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// DeleteTaskCommand removes a task by id.
type DeleteTaskCommand struct {
	TaskID string
}

func (DeleteTaskCommand) CommandName() string { return "tasks.delete" }

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo task.Repository
	events   eventPublisher
	logger   *slog.Logger
	metrics  observability.Metrics
}

var _ sharedApplication.CommandHandler[DeleteTaskCommand, string] = (*DeleteTaskHandler)(nil)

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *DeleteTaskHandler {
	events := newEventPublisher(publisher, logger, metrics)
	return &DeleteTaskHandler{
		taskRepo: taskRepo,
		events:   events,
		logger:   events.logger,
		metrics:  events.metrics,
	}
}

// Handle removes the task and returns its id. A missing task yields
// task.ErrTaskNotFound.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (string, error) {
	if strings.TrimSpace(cmd.TaskID) == "" {
		return "", task.NewValidationError(task.ErrEmptyID.Error())
	}

	found, err := observability.TimeOperationResult(ctx, h.logger, h.metrics, cmd.CommandName(), func() (bool, error) {
		return h.taskRepo.DeleteTask(ctx, cmd.TaskID)
	})
	if err != nil {
		return "", err
	}
	if !found {
		h.metrics.Counter(observability.MetricTasksNotFound, 1, observability.T(observability.OperationKey, cmd.CommandName()))
		return "", task.ErrTaskNotFound
	}

	h.metrics.Counter(observability.MetricTasksDeleted, 1)
	h.logger.InfoContext(ctx, "task deleted", "task_id", cmd.TaskID)

	event := task.NewTaskDeleted(cmd.TaskID)
	event.SetMetadata(sharedApplication.EventMetadataFromContext(ctx))
	h.events.publish(ctx, event)

	return cmd.TaskID, nil
}
