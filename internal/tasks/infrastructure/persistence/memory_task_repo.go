package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
)

// MemoryTaskRepository keeps tasks in process memory.
// Reads take a single read lock, so GetTasks returns a consistent snapshot.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	byID  map[string]task.Task
	order []string
}

// NewMemoryTaskRepository creates an empty in-memory repository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		byID:  make(map[string]task.Task),
		order: make([]string, 0),
	}
}

// GetTasks returns one page of tasks ordered by id.
func (r *MemoryTaskRepository) GetTasks(ctx context.Context, page, limit int) ([]task.Task, int64, error) {
	if err := task.CheckPage(page, limit); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, task.NewStorageError("get tasks", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.order))
	offset, ok := task.Offset(page, limit)
	if !ok || offset >= len(r.order) {
		return []task.Task{}, total, nil
	}
	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	result := make([]task.Task, 0, end-offset)
	for _, id := range r.order[offset:end] {
		result = append(result, r.byID[id])
	}
	return result, total, nil
}

// CreateTask inserts t. An existing id is rejected.
func (r *MemoryTaskRepository) CreateTask(ctx context.Context, t task.Task) error {
	if err := ctx.Err(); err != nil {
		return task.NewStorageError("create task", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; exists {
		return task.NewStorageError("create task", task.ErrDuplicateTask)
	}
	r.byID[t.ID] = t

	i := sort.SearchStrings(r.order, t.ID)
	r.order = append(r.order, "")
	copy(r.order[i+1:], r.order[i:])
	r.order[i] = t.ID
	return nil
}

// UpdateTask replaces the stored fields of id.
func (r *MemoryTaskRepository) UpdateTask(ctx context.Context, id string, t task.Task) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, task.NewStorageError("update task", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return false, nil
	}
	r.byID[id] = t.WithID(id)
	return true, nil
}

// DeleteTask removes id.
func (r *MemoryTaskRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, task.NewStorageError("delete task", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return false, nil
	}
	delete(r.byID, id)

	i := sort.SearchStrings(r.order, id)
	r.order = append(r.order[:i], r.order[i+1:]...)
	return true, nil
}

// Len returns the number of stored tasks.
func (r *MemoryTaskRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
