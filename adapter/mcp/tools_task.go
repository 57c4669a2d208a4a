package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/commands"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/queries"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

const (
	defaultPage        = 1
	defaultLimit       = 10
	defaultMaxPageSize = 100
)

type taskListInput struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type taskCreateInput struct {
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date" jsonschema:"required"`
}

type taskUpdateInput struct {
	TaskID      string `json:"task_id" jsonschema:"required"`
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date" jsonschema:"required"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskDeleteResult struct {
	TaskID  string `json:"task_id"`
	Deleted bool   `json:"deleted"`
}

type taskTools struct {
	list    *queries.ListTasksHandler
	create  *commands.CreateTaskHandler
	update  *commands.UpdateTaskHandler
	delete  *commands.DeleteTaskHandler
	maxPage int
	logger  *slog.Logger
}

func newTaskTools(deps ToolDependencies) *taskTools {
	return &taskTools{
		list:    deps.ListTasks,
		create:  deps.CreateTask,
		update:  deps.UpdateTask,
		delete:  deps.DeleteTask,
		maxPage: deps.MaxPageSize,
		logger:  deps.Logger,
	}
}

func registerTaskTools(srv *mcp.Server, tools *taskTools, metrics observability.Metrics) {
	srv.Tool("task.list").
		Description("List one page of tasks in creation order. Defaults to page 1 with 10 tasks.").
		Handler(counted(metrics, "task.list", tools.listTasks))

	srv.Tool("task.create").
		Description("Create a task. due_date accepts YYYY-MM-DD or RFC 3339.").
		Handler(counted(metrics, "task.create", tools.createTask))

	srv.Tool("task.update").
		Description("Replace the title, description and due date of a task").
		Handler(counted(metrics, "task.update", tools.updateTask))

	srv.Tool("task.delete").
		Description("Delete a task by id").
		Handler(counted(metrics, "task.delete", tools.deleteTask))
}

func (t *taskTools) listTasks(ctx context.Context, input taskListInput) (queries.TaskPage, error) {
	page, limit := input.Page, input.Limit
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > t.maxPage {
		return queries.TaskPage{}, fmt.Errorf("limit must not exceed %d", t.maxPage)
	}

	result, err := t.list.Handle(ctx, queries.ListTasksQuery{Page: page, Limit: limit})
	if err != nil {
		return queries.TaskPage{}, t.toolError(ctx, "task.list", err)
	}
	return result, nil
}

func (t *taskTools) createTask(ctx context.Context, input taskCreateInput) (task.Task, error) {
	due, err := parseDueDate(input.DueDate)
	if err != nil {
		return task.Task{}, err
	}

	created, err := t.create.Handle(ctx, commands.CreateTaskCommand{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     due,
	})
	if err != nil {
		return task.Task{}, t.toolError(ctx, "task.create", err)
	}
	return created, nil
}

func (t *taskTools) updateTask(ctx context.Context, input taskUpdateInput) (task.Task, error) {
	if strings.TrimSpace(input.TaskID) == "" {
		return task.Task{}, errors.New("task_id is required")
	}
	due, err := parseDueDate(input.DueDate)
	if err != nil {
		return task.Task{}, err
	}

	updated, err := t.update.Handle(ctx, commands.UpdateTaskCommand{
		TaskID:      input.TaskID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     due,
	})
	if err != nil {
		return task.Task{}, t.toolError(ctx, "task.update", err)
	}
	return updated, nil
}

func (t *taskTools) deleteTask(ctx context.Context, input taskIDInput) (taskDeleteResult, error) {
	if strings.TrimSpace(input.TaskID) == "" {
		return taskDeleteResult{}, errors.New("task_id is required")
	}

	id, err := t.delete.Handle(ctx, commands.DeleteTaskCommand{TaskID: input.TaskID})
	if err != nil {
		return taskDeleteResult{}, t.toolError(ctx, "task.delete", err)
	}
	return taskDeleteResult{TaskID: id, Deleted: true}, nil
}

// toolError keeps validation and not-found messages and hides storage details.
func (t *taskTools) toolError(ctx context.Context, tool string, err error) error {
	switch {
	case task.IsValidation(err):
		return err
	case errors.Is(err, task.ErrTaskNotFound):
		return task.ErrTaskNotFound
	default:
		t.logger.ErrorContext(ctx, "mcp tool failed", "tool", tool, "error", err)
		return fmt.Errorf("%s failed: storage unavailable", tool)
	}
}

func parseDueDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, errors.New("due_date is required")
	}
	return task.ParseDueDate(value)
}
