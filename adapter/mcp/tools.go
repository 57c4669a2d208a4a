package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/commands"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/queries"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	ListTasks   *queries.ListTasksHandler
	CreateTask  *commands.CreateTaskHandler
	UpdateTask  *commands.UpdateTaskHandler
	DeleteTask  *commands.DeleteTaskHandler
	Health      *observability.HealthRegistry
	MaxPageSize int
	Logger      *slog.Logger
	Metrics     observability.Metrics
}

// RegisterTools registers the task board tools on srv.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.ListTasks == nil || deps.CreateTask == nil || deps.UpdateTask == nil || deps.DeleteTask == nil {
		return errors.New("task handlers are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}
	if deps.MaxPageSize <= 0 {
		deps.MaxPageSize = defaultMaxPageSize
	}

	registerTaskTools(srv, newTaskTools(deps), deps.Metrics)
	if deps.Health != nil {
		registerHealthTool(srv, deps.Health)
	}
	return nil
}

// counted wraps a tool handler so every call increments the tool-call counter
// tagged with the tool name and outcome.
func counted[In, Out any](metrics observability.Metrics, tool string, fn func(context.Context, In) (Out, error)) func(context.Context, In) (Out, error) {
	return func(ctx context.Context, in In) (Out, error) {
		out, err := fn(ctx, in)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.Counter(observability.MetricMCPToolCalls, 1,
			observability.T("tool", tool), observability.T("outcome", outcome))
		return out, err
	}
}
