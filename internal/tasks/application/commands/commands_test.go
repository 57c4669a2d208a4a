package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/felixgeelhaar/taskboard/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var due = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

func TestCreateTaskHandler_Handle(t *testing.T) {
	t.Run("stores task with generated id and publishes event", func(t *testing.T) {
		repo := new(MockTaskRepository)
		pub := &recordingPublisher{}
		metrics := observability.NewInMemoryMetrics()
		repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(tk task.Task) bool {
			return tk.ID != "" && tk.Title == "Write report" && tk.Description == "Q1"
		})).Return(nil)

		h := NewCreateTaskHandler(repo, pub, nil, metrics)
		ctx := observability.WithRequestID(context.Background(), "req-1")
		created, err := h.Handle(ctx, CreateTaskCommand{Title: "Write report", Description: "Q1", DueDate: due})

		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.True(t, due.Equal(created.DueDate))
		assert.Equal(t, []string{task.RoutingKeyCreated}, pub.keys())
		assert.Equal(t, created.ID, pub.events[0].AggregateID)
		assert.Equal(t, "req-1", pub.events[0].Metadata.RequestID)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricTasksCreated))
		repo.AssertExpectations(t)
	})

	t.Run("invalid task never reaches the repository", func(t *testing.T) {
		repo := new(MockTaskRepository)
		h := NewCreateTaskHandler(repo, nil, nil, nil)

		_, err := h.Handle(context.Background(), CreateTaskCommand{Title: "  ", DueDate: due})
		require.Error(t, err)
		assert.True(t, task.IsValidation(err))
		repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is returned and nothing is published", func(t *testing.T) {
		repo := new(MockTaskRepository)
		pub := &recordingPublisher{}
		repo.On("CreateTask", mock.Anything, mock.Anything).
			Return(task.NewStorageError("create task", errors.New("connection refused")))

		h := NewCreateTaskHandler(repo, pub, nil, nil)
		_, err := h.Handle(context.Background(), CreateTaskCommand{Title: "T", DueDate: due})

		require.Error(t, err)
		assert.True(t, task.IsStorage(err))
		assert.Empty(t, pub.keys())
	})

	t.Run("publish failure does not fail the command", func(t *testing.T) {
		repo := new(MockTaskRepository)
		pub := &recordingPublisher{err: errors.New("broker down")}
		metrics := observability.NewInMemoryMetrics()
		repo.On("CreateTask", mock.Anything, mock.Anything).Return(nil)

		h := NewCreateTaskHandler(repo, pub, nil, metrics)
		_, err := h.Handle(context.Background(), CreateTaskCommand{Title: "T", DueDate: due})

		require.NoError(t, err)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricEventsPublishFailed,
			observability.T("routing_key", task.RoutingKeyCreated)))
	})
}

func TestUpdateTaskHandler_Handle(t *testing.T) {
	t.Run("replaces the task under the command id", func(t *testing.T) {
		repo := new(MockTaskRepository)
		pub := &recordingPublisher{}
		want := task.Task{ID: "0190a", Title: "T2", Description: "", DueDate: due}
		repo.On("UpdateTask", mock.Anything, "0190a", want).Return(true, nil)

		h := NewUpdateTaskHandler(repo, pub, nil, nil)
		got, err := h.Handle(context.Background(), UpdateTaskCommand{TaskID: "0190a", Title: "T2", DueDate: due})

		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, []string{task.RoutingKeyUpdated}, pub.keys())
		repo.AssertExpectations(t)
	})

	t.Run("stores due date at millisecond precision", func(t *testing.T) {
		repo := new(MockTaskRepository)
		fine := due.Add(123456789 * time.Nanosecond)
		want := task.Task{ID: "0190a", Title: "T", DueDate: due.Add(123 * time.Millisecond)}
		repo.On("UpdateTask", mock.Anything, "0190a", want).Return(true, nil)

		h := NewUpdateTaskHandler(repo, &recordingPublisher{}, nil, nil)
		got, err := h.Handle(context.Background(), UpdateTaskCommand{TaskID: "0190a", Title: "T", DueDate: fine})

		require.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		repo := new(MockTaskRepository)
		pub := &recordingPublisher{}
		metrics := observability.NewInMemoryMetrics()
		repo.On("UpdateTask", mock.Anything, "missing", mock.Anything).Return(false, nil)

		h := NewUpdateTaskHandler(repo, pub, nil, metrics)
		_, err := h.Handle(context.Background(), UpdateTaskCommand{TaskID: "missing", Title: "T", DueDate: due})

		require.ErrorIs(t, err, task.ErrTaskNotFound)
		assert.Empty(t, pub.keys())
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricTasksNotFound,
			observability.T(observability.OperationKey, "tasks.update")))
	})

	t.Run("missing due date is rejected", func(t *testing.T) {
		repo := new(MockTaskRepository)
		h := NewUpdateTaskHandler(repo, nil, nil, nil)

		_, err := h.Handle(context.Background(), UpdateTaskCommand{TaskID: "0190a", Title: "T"})
		require.Error(t, err)
		assert.True(t, task.IsValidation(err))
		repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("UpdateTask", mock.Anything, "0190a", mock.Anything).
			Return(false, task.NewStorageError("update task", errors.New("timeout")))

		h := NewUpdateTaskHandler(repo, nil, nil, nil)
		_, err := h.Handle(context.Background(), UpdateTaskCommand{TaskID: "0190a", Title: "T", DueDate: due})

		require.Error(t, err)
		assert.True(t, task.IsStorage(err))
		assert.False(t, errors.Is(err, task.ErrTaskNotFound))
	})
}

func TestDeleteTaskHandler_Handle(t *testing.T) {
	t.Run("deletes and publishes", func(t *testing.T) {
		repo := new(MockTaskRepository)
		pub := &recordingPublisher{}
		repo.On("DeleteTask", mock.Anything, "0190a").Return(true, nil)

		h := NewDeleteTaskHandler(repo, pub, nil, nil)
		id, err := h.Handle(context.Background(), DeleteTaskCommand{TaskID: "0190a"})

		require.NoError(t, err)
		assert.Equal(t, "0190a", id)
		assert.Equal(t, []string{task.RoutingKeyDeleted}, pub.keys())
	})

	t.Run("missing task is not found", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("DeleteTask", mock.Anything, "0190a").Return(false, nil)

		h := NewDeleteTaskHandler(repo, nil, nil, nil)
		_, err := h.Handle(context.Background(), DeleteTaskCommand{TaskID: "0190a"})
		require.ErrorIs(t, err, task.ErrTaskNotFound)
	})

	t.Run("blank id is rejected", func(t *testing.T) {
		repo := new(MockTaskRepository)
		h := NewDeleteTaskHandler(repo, nil, nil, nil)

		_, err := h.Handle(context.Background(), DeleteTaskCommand{TaskID: " "})
		require.Error(t, err)
		assert.True(t, task.IsValidation(err))
		repo.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
	})
}
