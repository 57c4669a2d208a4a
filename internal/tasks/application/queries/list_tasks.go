package queries

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/taskboard/internal/shared/application"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// ListTasksQuery selects one page of tasks.
type ListTasksQuery struct {
	Page  int
	Limit int
}

func (ListTasksQuery) QueryName() string { return "tasks.list" }

// TaskPage is one page of tasks with the paging summary.
type TaskPage struct {
	Tasks       []task.Task `json:"tasks"`
	Total       int64       `json:"total"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int64       `json:"totalPages"`
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
	logger   *slog.Logger
	metrics  observability.Metrics
}

var _ sharedApplication.QueryHandler[ListTasksQuery, TaskPage] = (*ListTasksHandler)(nil)

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository, logger *slog.Logger, metrics observability.Metrics) *ListTasksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ListTasksHandler{taskRepo: taskRepo, logger: logger, metrics: metrics}
}

// Handle fetches the requested page. Tasks is never nil.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) (TaskPage, error) {
	if err := task.CheckPage(query.Page, query.Limit); err != nil {
		return TaskPage{}, err
	}

	type result struct {
		tasks []task.Task
		total int64
	}
	res, err := observability.TimeOperationResult(ctx, h.logger, h.metrics, query.QueryName(), func() (result, error) {
		tasks, total, err := h.taskRepo.GetTasks(ctx, query.Page, query.Limit)
		return result{tasks: tasks, total: total}, err
	})
	if err != nil {
		return TaskPage{}, err
	}

	if res.tasks == nil {
		res.tasks = []task.Task{}
	}
	h.metrics.Counter(observability.MetricTasksListed, int64(len(res.tasks)))

	return TaskPage{
		Tasks:       res.tasks,
		Total:       res.total,
		CurrentPage: query.Page,
		TotalPages:  TotalPages(res.total, query.Limit),
	}, nil
}

// TotalPages returns ceil(total/limit), or 0 when there are no tasks.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total-1)/int64(limit) + 1
}
