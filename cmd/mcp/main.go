// Command mcp runs the taskboard MCP server on its own, without the CLI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskboard/internal/app"
	mcpinternal "github.com/felixgeelhaar/taskboard/internal/mcp"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logCfg := observability.LogConfigFromEnv()
	logger := observability.NewLogger(logCfg)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(1)
	}
	if os.Getenv("TASKBOARD_LOG_LEVEL") == "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
		logger = observability.NewLogger(logCfg)
	}
	slog.SetDefault(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	err = mcpinternal.Serve(ctx, cfg, container, logger)
	container.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
