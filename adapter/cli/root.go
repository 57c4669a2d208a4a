// Package cli is the taskboard command line. Every command except serve and
// mcp talks to a running API through the HTTP client held by App.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/client"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	apiURL  string
	verbose bool
	logger  *slog.Logger
)

type startedAtKey struct{}

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "A small task tracker",
	Long: `taskboard serves a task API and manages tasks through it.

Start the API with "taskboard serve", then use the "task" commands, the
interactive "board", or "events tail" to follow changes.`,
	SilenceUsage:      true,
	PersistentPreRun:  beginCommand,
	PersistentPostRun: endCommand,
}

// beginCommand applies --api-url and tags the command context with a
// correlation id that the client forwards on every request.
func beginCommand(cmd *cobra.Command, _ []string) {
	if apiURL != "" && app != nil {
		app.Client = client.New(apiURL)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = observability.WithCorrelationID(ctx, "")
	ctx = context.WithValue(ctx, startedAtKey{}, time.Now())
	cmd.SetContext(ctx)

	Logger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
}

func endCommand(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	started, ok := ctx.Value(startedAtKey{}).(time.Time)
	if !ok {
		return
	}
	Logger().DebugContext(ctx, "command end",
		"command", cmd.CommandPath(),
		observability.DurationKey, time.Since(started).Milliseconds(),
	)
}

// Execute runs the command tree and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiURL, "api-url", "", "task API base URL (overrides TASKBOARD_API_URL)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand registers a command group under the root.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the logger set with SetLogger, or slog.Default.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}
