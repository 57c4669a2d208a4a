package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/docstore"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/taskboard/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Storage is an open storage backend and the task repository built on it.
type Storage struct {
	Driver     database.Driver
	Repository task.Repository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the backend is reachable. The in-memory backend always is.
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Storage) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// ResolveDriver picks the storage driver. STORAGE_DRIVER wins; otherwise it
// is detected from DATABASE_URL, and no URL at all means in-memory storage.
func ResolveDriver(cfg *config.Config) (database.Driver, error) {
	if cfg.StorageDriver != "" {
		d := database.Driver(cfg.StorageDriver)
		if !d.IsValid() {
			return "", fmt.Errorf("unsupported storage driver: %q", cfg.StorageDriver)
		}
		return d, nil
	}
	d := database.DetectDriver(cfg.DatabaseURL)
	if d == "" {
		return "", fmt.Errorf("cannot detect storage driver from DATABASE_URL")
	}
	return d, nil
}

// OpenStorage connects to the configured backend and builds its task
// repository. Remote backends are wrapped in a circuit breaker when enabled.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	driver, err := ResolveDriver(cfg)
	if err != nil {
		return nil, err
	}

	var s *Storage
	switch driver {
	case database.DriverMemory:
		s = &Storage{Repository: persistence.NewMemoryTaskRepository()}
	case database.DriverPostgres, database.DriverSQLite:
		s, err = openSQL(ctx, cfg, driver)
	case database.DriverMongo:
		s, err = openMongo(ctx, cfg)
	case database.DriverRedis:
		s, err = openRedis(ctx, cfg)
	default:
		err = fmt.Errorf("unsupported storage driver: %q", driver)
	}
	if err != nil {
		return nil, err
	}
	s.Driver = driver

	if cfg.BreakerEnabled && driver != database.DriverMemory {
		s.Repository = persistence.NewBreakerTaskRepository(s.Repository, persistence.BreakerConfig{
			Name:             "task-repository-" + driver.String(),
			FailureThreshold: uint32(max(cfg.BreakerMaxFailures, 1)),
			Timeout:          cfg.BreakerTimeout,
		}, logger)
	}

	logger.Info("storage ready", "driver", driver.String(), "breaker", cfg.BreakerEnabled && driver != database.DriverMemory)
	return s, nil
}

func openSQL(ctx context.Context, cfg *config.Config, driver database.Driver) (*Storage, error) {
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}
	return &Storage{
		Repository: persistence.NewSQLTaskRepository(conn),
		ping:       conn.Ping,
		close:      func(context.Context) error { return conn.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Storage, error) {
	url := cfg.MongoURL
	if database.DetectDriver(cfg.DatabaseURL) == database.DriverMongo {
		url = cfg.DatabaseURL
	}
	conn, err := docstore.Connect(ctx, docstore.Config{
		URL:            url,
		Database:       cfg.MongoDatabase,
		Collection:     cfg.MongoCollection,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Storage{
		Repository: persistence.NewMongoTaskRepository(conn.Collection()),
		ping:       conn.Ping,
		close:      conn.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*Storage, error) {
	url := cfg.RedisURL
	if database.DetectDriver(cfg.DatabaseURL) == database.DriverRedis {
		url = cfg.DatabaseURL
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Storage{
		Repository: persistence.NewRedisTaskRepository(client, cfg.RedisKeyPrefix),
		ping:       func(ctx context.Context) error { return client.Ping(ctx).Err() },
		close:      func(context.Context) error { return client.Close() },
	}, nil
}
