// Package mcp holds the "taskboard mcp" commands.
package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/taskboard/adapter/cli"
	"github.com/felixgeelhaar/taskboard/internal/app"
	mcpinternal "github.com/felixgeelhaar/taskboard/internal/mcp"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
	"github.com/spf13/cobra"
)

// Cmd groups the MCP subcommands.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the task board to MCP clients",
}

var serveAddr string

func init() {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over HTTP",
		Long: `Start the MCP server with the task.list, task.create, task.update,
task.delete and health tools. Set MCP_AUTH_TOKEN to require a bearer token.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides MCP_ADDR)")
	Cmd.AddCommand(serve)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.MCPAddr = serveAddr
	}
	logger := newServerLogger(cmd.OutOrStdout(), cfg.IsDevelopment() || cli.Verbose())

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := mcpinternal.Serve(ctx, cfg, container, logger); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadConfig copies the CLI config so the --addr override stays local.
func loadConfig() (*config.Config, error) {
	if a := cli.GetApp(); a != nil && a.Config != nil {
		c := *a.Config
		return &c, nil
	}
	return config.Load()
}

func newServerLogger(out io.Writer, debug bool) *slog.Logger {
	cfg := observability.LogConfigFromEnv()
	cfg.Output = out
	cfg.ServiceName = "taskboard-mcp"
	if debug {
		cfg.Level = observability.LogLevelDebug
	} else {
		cfg.Level = observability.LogLevelInfo
	}
	return observability.NewLogger(cfg)
}
