package persistence_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behaviour every task.Repository must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) task.Repository) {
	t.Helper()
	ctx := context.Background()
	due := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	mustCreate := func(t *testing.T, repo task.Repository, title string) task.Task {
		t.Helper()
		tk, err := task.NewTask(title, "desc "+title, due)
		require.NoError(t, err)
		require.NoError(t, repo.CreateTask(ctx, tk))
		return tk
	}

	t.Run("empty store", func(t *testing.T) {
		repo := newRepo(t)

		tasks, total, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
		assert.Equal(t, int64(0), total)
	})

	t.Run("create then list", func(t *testing.T) {
		repo := newRepo(t)
		created := mustCreate(t, repo, "T")

		tasks, total, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, created.ID, tasks[0].ID)
		assert.Equal(t, "T", tasks[0].Title)
		assert.Equal(t, "desc T", tasks[0].Description)
		assert.True(t, due.Equal(tasks[0].DueDate))
	})

	t.Run("pages are ordered by id", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for i := 0; i < 11; i++ {
			ids = append(ids, mustCreate(t, repo, fmt.Sprintf("task %02d", i)).ID)
		}

		first, total, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(11), total)
		require.Len(t, first, 10)
		for i, tk := range first {
			assert.Equal(t, ids[i], tk.ID)
		}

		second, total, err := repo.GetTasks(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(11), total)
		require.Len(t, second, 1)
		assert.Equal(t, ids[10], second[0].ID)

		beyond, total, err := repo.GetTasks(ctx, 3, 10)
		require.NoError(t, err)
		assert.Empty(t, beyond)
		assert.Equal(t, int64(11), total)
	})

	t.Run("page past the addressable range is empty", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 3; i++ {
			mustCreate(t, repo, fmt.Sprintf("task %d", i))
		}

		for _, p := range []struct{ page, limit int }{
			{math.MaxInt / 2, 4},
			{math.MaxInt, 1},
			{2, math.MaxInt},
		} {
			tasks, total, err := repo.GetTasks(ctx, p.page, p.limit)
			require.NoError(t, err, "page=%d limit=%d", p.page, p.limit)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks, "page=%d limit=%d", p.page, p.limit)
			assert.Equal(t, int64(3), total)
		}
	})

	t.Run("duplicate id is a storage error", func(t *testing.T) {
		repo := newRepo(t)
		created := mustCreate(t, repo, "T")

		err := repo.CreateTask(ctx, created)
		require.Error(t, err)
		assert.True(t, task.IsStorage(err))
		assert.True(t, errors.Is(err, task.ErrDuplicateTask))

		_, total, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		repo := newRepo(t)
		created := mustCreate(t, repo, "T")
		newDue := due.Add(48 * time.Hour)

		ok, err := repo.UpdateTask(ctx, created.ID, task.Task{ID: created.ID, Title: "T2", Description: "", DueDate: newDue})
		require.NoError(t, err)
		assert.True(t, ok)

		tasks, _, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, created.ID, tasks[0].ID)
		assert.Equal(t, "T2", tasks[0].Title)
		assert.Equal(t, "", tasks[0].Description)
		assert.True(t, newDue.Equal(tasks[0].DueDate))
	})

	t.Run("update of missing id does not upsert", func(t *testing.T) {
		repo := newRepo(t)
		mustCreate(t, repo, "T")

		ok, err := repo.UpdateTask(ctx, "missing", task.Task{ID: "missing", Title: "X", DueDate: due})
		require.NoError(t, err)
		assert.False(t, ok)

		_, total, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("delete twice", func(t *testing.T) {
		repo := newRepo(t)
		created := mustCreate(t, repo, "T")

		ok, err := repo.DeleteTask(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.DeleteTask(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		tasks, total, err := repo.GetTasks(ctx, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Equal(t, int64(0), total)
	})

	t.Run("invalid paging is rejected", func(t *testing.T) {
		repo := newRepo(t)

		_, _, err := repo.GetTasks(ctx, 0, 10)
		require.Error(t, err)
		assert.True(t, task.IsValidation(err))

		_, _, err = repo.GetTasks(ctx, 1, 0)
		require.Error(t, err)
		assert.True(t, task.IsValidation(err))
	})
}
