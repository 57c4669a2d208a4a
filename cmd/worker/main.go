// Command worker consumes task events from RabbitMQ and writes them to the
// activity log. It exits when interrupted or when the broker goes away.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/consumers"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("worker failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logCfg := observability.LogConfigFromEnv()
	if os.Getenv("TASKBOARD_LOG_LEVEL") == "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	logger := observability.NewLogger(logCfg).With("component", "worker")
	slog.SetDefault(logger)

	if !cfg.EventsEnabled() {
		return errors.New("RABBITMQ_URL is required for the worker")
	}

	registry := eventbus.NewConsumerRegistry(logger)
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: cfg.WorkerQueue,
		Logger:    logger,
	}, registry)
	if err != nil {
		return err
	}
	defer consumer.Close()

	consumer.RegisterConsumer(consumers.NewActivityLogger(logger))
	logger.Info("worker ready", "queue", consumer.Queue(), "patterns", registry.Patterns())

	if cfg.WorkerHealthAddr != "" {
		health := observability.NewHealthRegistry()
		health.Register("broker", observability.PingHealthChecker("broker", true, consumer.Ping))
		go serveHealth(ctx, cfg.WorkerHealthAddr, health, logger)
	}

	err = consumer.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("worker stopped")
	return nil
}

// serveHealth exposes GET /healthz until ctx is done. It answers 503 when the
// broker connection is gone.
func serveHealth(ctx context.Context, addr string, health *observability.HealthRegistry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		report := health.GetOverallHealth(r.Context())
		body, err := report.ToJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if report.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write(body)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("health endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("health endpoint failed", "error", err)
	}
}
