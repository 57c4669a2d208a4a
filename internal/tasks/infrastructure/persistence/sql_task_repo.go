package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
)

const (
	sqlSelectPage = `SELECT id, title, description, due_date FROM tasks ORDER BY id ASC LIMIT ? OFFSET ?`
	sqlCount      = `SELECT COUNT(*) FROM tasks`
	sqlInsert     = `INSERT INTO tasks (id, title, description, due_date) VALUES (?, ?, ?, ?)`
	sqlUpdate     = `UPDATE tasks SET title = ?, description = ?, due_date = ? WHERE id = ?`
	sqlDelete     = `DELETE FROM tasks WHERE id = ?`
)

// SQLTaskRepository implements task.Repository over PostgreSQL or SQLite.
type SQLTaskRepository struct {
	conn database.Connection
}

// NewSQLTaskRepository creates a task repository over an open SQL connection.
func NewSQLTaskRepository(conn database.Connection) *SQLTaskRepository {
	return &SQLTaskRepository{conn: conn}
}

func (r *SQLTaskRepository) bind(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

// GetTasks reads the page and the total as two statements outside a transaction.
func (r *SQLTaskRepository) GetTasks(ctx context.Context, page, limit int) ([]task.Task, int64, error) {
	if err := task.CheckPage(page, limit); err != nil {
		return nil, 0, err
	}

	tasks := make([]task.Task, 0)
	if offset, ok := task.Offset(page, limit); ok {
		err := r.conn.QueryEach(ctx, func(row database.Row) error {
			t, err := scanTask(row)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
			return nil
		}, r.bind(sqlSelectPage), limit, offset)
		if err != nil {
			return nil, 0, task.NewStorageError("get tasks", err)
		}
	}

	var total int64
	if err := r.conn.QueryRow(ctx, sqlCount).Scan(&total); err != nil {
		return nil, 0, task.NewStorageError("count tasks", err)
	}

	return tasks, total, nil
}

// CreateTask inserts t.
func (r *SQLTaskRepository) CreateTask(ctx context.Context, t task.Task) error {
	_, err := r.conn.Exec(ctx, r.bind(sqlInsert), t.ID, t.Title, t.Description, formatDueDate(t.DueDate))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return task.NewStorageError("create task", fmt.Errorf("%w: %s", task.ErrDuplicateTask, t.ID))
		}
		return task.NewStorageError("create task", err)
	}
	return nil
}

// UpdateTask replaces the row for id and reports whether one matched.
func (r *SQLTaskRepository) UpdateTask(ctx context.Context, id string, t task.Task) (bool, error) {
	affected, err := r.conn.Exec(ctx, r.bind(sqlUpdate), t.Title, t.Description, formatDueDate(t.DueDate), id)
	if err != nil {
		return false, task.NewStorageError("update task", err)
	}
	return affected > 0, nil
}

// DeleteTask removes the row for id and reports whether one existed.
func (r *SQLTaskRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	affected, err := r.conn.Exec(ctx, r.bind(sqlDelete), id)
	if err != nil {
		return false, task.NewStorageError("delete task", err)
	}
	return affected > 0, nil
}

func scanTask(row database.Row) (task.Task, error) {
	var (
		t   task.Task
		due string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &due); err != nil {
		return task.Task{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, due)
	if err != nil {
		return task.Task{}, fmt.Errorf("invalid due_date %q for task %s: %w", due, t.ID, err)
	}
	t.DueDate = parsed
	return t, nil
}

func formatDueDate(due time.Time) string {
	return due.UTC().Format(time.RFC3339Nano)
}
