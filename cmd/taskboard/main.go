package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskboard/adapter/cli"
	"github.com/felixgeelhaar/taskboard/adapter/cli/events"
	"github.com/felixgeelhaar/taskboard/adapter/cli/mcp"
	"github.com/felixgeelhaar/taskboard/adapter/cli/task"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logCfg := observability.LogConfigFromEnv()
	logger := observability.NewLogger(logCfg)

	// The client commands only need APIURL, so a broken server config
	// should not block them.
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config invalid, falling back to development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development", APIURL: "http://localhost:5000", MaxPageSize: 100}
	}
	if cfg.IsDevelopment() && cfg.LogLevel != "" && os.Getenv("TASKBOARD_LOG_LEVEL") == "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
		logger = observability.NewLogger(logCfg)
	}
	slog.SetDefault(logger)

	cli.SetLogger(logger)
	cli.SetApp(cli.NewApp(cfg))
	cli.AddCommand(task.Cmd)
	cli.AddCommand(events.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
