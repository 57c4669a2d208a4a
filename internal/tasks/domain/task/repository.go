package task

import "context"

// Repository defines the interface for task persistence.
//
// Implementations order tasks by id ascending. GetTasks may read the page and
// the total with two independent operations, so under concurrent writes the
// total can briefly disagree with the returned window.
type Repository interface {
	// GetTasks returns at most limit tasks of the 1-indexed page and the count of all tasks.
	GetTasks(ctx context.Context, page, limit int) ([]Task, int64, error)
	// CreateTask inserts a task whose id is already assigned.
	CreateTask(ctx context.Context, t Task) error
	// UpdateTask replaces the stored fields of id. It reports whether a record matched.
	UpdateTask(ctx context.Context, id string, t Task) (bool, error)
	// DeleteTask removes id. It reports whether a record was removed.
	DeleteTask(ctx context.Context, id string) (bool, error)
}
