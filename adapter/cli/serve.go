package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskboard/adapter/api"
	internalApp "github.com/felixgeelhaar/taskboard/internal/app"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task API server",
	Long: `Start the HTTP task API.

Storage is chosen with STORAGE_DRIVER (memory, sqlite, postgres, mongodb,
redis) or detected from DATABASE_URL. The server drains in-flight requests
on SIGINT/SIGTERM and then closes the storage connection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serveConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.HTTPAddr = serveAddr
		}
		return Serve(cmd.Context(), cfg)
	},
}

func serveConfig() (*config.Config, error) {
	if app := GetApp(); app != nil && app.Config != nil {
		return app.Config, nil
	}
	return config.Load()
}

// Serve runs the API until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *config.Config) error {
	log := Logger()

	container, err := internalApp.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Close()

	handler := api.NewTaskHandler(api.TaskHandlerConfig{
		ListTasks:   container.ListTasksHandler,
		CreateTask:  container.CreateTaskHandler,
		UpdateTask:  container.UpdateTaskHandler,
		DeleteTask:  container.DeleteTaskHandler,
		MaxPageSize: cfg.MaxPageSize,
		Logger:      log,
	})
	server := api.NewServer(api.ServerConfig{
		Addr:           cfg.HTTPAddr,
		ReadTimeout:    cfg.HTTPReadTimeout,
		WriteTimeout:   cfg.HTTPWriteTimeout,
		IdleTimeout:    cfg.HTTPIdleTimeout,
		AllowedOrigins: cfg.CORSOrigins,
	}, handler, container.Health, container.Metrics, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
