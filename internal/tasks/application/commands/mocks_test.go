package commands

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository is a mock implementation of task.Repository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetTasks(ctx context.Context, page, limit int) ([]task.Task, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, t task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, id string, t task.Task) (bool, error) {
	args := m.Called(ctx, id, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var _ task.Repository = (*MockTaskRepository)(nil)

// recordingPublisher captures published envelopes.
type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	var e eventbus.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return err
	}
	if e.RoutingKey != routingKey {
		return errors.New("routing key mismatch")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
