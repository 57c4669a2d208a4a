package persistence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a repository.
type BreakerConfig struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state used to clear counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "task-repository",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerTaskRepository wraps a task.Repository with a circuit breaker.
// Only storage failures count toward tripping; rejected paging, duplicate
// ids and canceled requests pass through without affecting the counts.
type BreakerTaskRepository struct {
	next    task.Repository
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerTaskRepository wraps next.
func NewBreakerTaskRepository(next task.Repository, cfg BreakerConfig, logger *slog.Logger) *BreakerTaskRepository {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}

	r := &BreakerTaskRepository{next: next, logger: logger}
	r.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsExcluded: isBreakerNeutral,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return r
}

// State returns the breaker's current state.
func (r *BreakerTaskRepository) State() gobreaker.State {
	return r.breaker.State()
}

func isBreakerNeutral(err error) bool {
	return task.IsValidation(err) ||
		errors.Is(err, task.ErrDuplicateTask) ||
		errors.Is(err, context.Canceled)
}

func (r *BreakerTaskRepository) execute(op string, fn func() (any, error)) (any, error) {
	result, err := r.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, task.NewStorageError(op, task.ErrCircuitOpen)
	}
	return result, err
}

type page struct {
	tasks []task.Task
	total int64
}

func (r *BreakerTaskRepository) GetTasks(ctx context.Context, p, limit int) ([]task.Task, int64, error) {
	result, err := r.execute("get tasks", func() (any, error) {
		tasks, total, err := r.next.GetTasks(ctx, p, limit)
		return page{tasks: tasks, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	pg := result.(page)
	return pg.tasks, pg.total, nil
}

func (r *BreakerTaskRepository) CreateTask(ctx context.Context, t task.Task) error {
	_, err := r.execute("create task", func() (any, error) {
		return nil, r.next.CreateTask(ctx, t)
	})
	return err
}

func (r *BreakerTaskRepository) UpdateTask(ctx context.Context, id string, t task.Task) (bool, error) {
	result, err := r.execute("update task", func() (any, error) {
		return r.next.UpdateTask(ctx, id, t)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *BreakerTaskRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	result, err := r.execute("delete task", func() (any, error) {
		return r.next.DeleteTask(ctx, id)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
