package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"
	mcplocal "github.com/felixgeelhaar/taskboard/adapter/mcp"
	"github.com/felixgeelhaar/taskboard/internal/app"
	"github.com/felixgeelhaar/taskboard/pkg/config"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// NewServer builds an MCP server exposing the container's task handlers as tools.
func NewServer(container *app.Container) (*mcpgo.Server, error) {
	if container == nil {
		return nil, errors.New("container is required")
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "taskboard-mcp",
		Version: Version,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	})

	deps := mcplocal.ToolDependencies{
		ListTasks:   container.ListTasksHandler,
		CreateTask:  container.CreateTaskHandler,
		UpdateTask:  container.UpdateTaskHandler,
		DeleteTask:  container.DeleteTaskHandler,
		Health:      container.Health,
		MaxPageSize: container.Config.MaxPageSize,
		Logger:      container.Logger,
		Metrics:     container.Metrics,
	}
	if err := mcplocal.RegisterTools(srv, deps); err != nil {
		return nil, err
	}
	return srv, nil
}

// Serve starts an MCP server over HTTP and blocks until the context is canceled.
func Serve(ctx context.Context, cfg *config.Config, container *app.Container, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := NewServer(container)
	if err != nil {
		return err
	}

	adapter := mcpLogger{logger: logger}
	stack := middlewareStack(cfg.MCPAuthToken, adapter)
	if cfg.MCPAuthToken == "" {
		logger.Warn("MCP auth token not set; requests will be unauthenticated")
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// middlewareStack returns the default MCP stack, guarded by bearer auth when token is set.
func middlewareStack(token string, logger mcpLogger) []middleware.Middleware {
	stack := middleware.DefaultStack(logger)
	if token == "" {
		return stack
	}
	authenticator := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
		token: {ID: "mcp", Name: "mcp"},
	}))
	return append([]middleware.Middleware{middleware.Auth(authenticator, middleware.WithAuthLogger(logger))}, stack...)
}

type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, fieldsToArgs(fields)...)
}

func (l mcpLogger) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, fieldsToArgs(fields)...)
}

func fieldsToArgs(fields []middleware.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		args = append(args, field.Key, field.Value)
	}
	return args
}
