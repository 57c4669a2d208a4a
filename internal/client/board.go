package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
)

// PageSize is the number of tasks the board shows per page.
const PageSize = 10

// Alert texts shown to the user.
const (
	AlertTitleRequired   = "Please enter a title."
	AlertDueDateRequired = "Please select a due date."
	AlertTaskNotFound    = "Task not found."
	AlertFetchFailed     = "Failed to fetch tasks."
	AlertAddFailed       = "Failed to add task."
	AlertUpdateFailed    = "Failed to update task."
	AlertDeleteFailed    = "Failed to delete task."
)

// Draft errors returned when a form is rejected before any request is made.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrDueDateRequired = errors.New("due date is required")
	ErrNotEditing      = errors.New("no task is being edited")
)

// TaskAPI is the subset of the API the board drives. *Client satisfies it.
type TaskAPI interface {
	ListTasks(ctx context.Context, page, limit int) (*Page, error)
	CreateTask(ctx context.Context, in TaskInput) (task.Task, error)
	UpdateTask(ctx context.Context, id string, in TaskInput) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(msg string)

// Alert calls f(msg).
func (f AlerterFunc) Alert(msg string) { f(msg) }

// Draft holds the editable fields of a task form.
type Draft struct {
	Title       string
	Description string
	DueDate     time.Time
}

func (d Draft) input() TaskInput {
	return TaskInput{Title: d.Title, Description: d.Description, DueDate: d.DueDate}
}

type edit struct {
	id    string
	draft Draft
}

// Board is the view model of the task board. It caches the current page
// keyed by id in server order and allows at most one task to be edited at a
// time. It is not safe for concurrent use.
type Board struct {
	api     TaskAPI
	alerter Alerter
	logger  *slog.Logger

	tasks map[string]task.Task
	order []string

	currentPage int
	totalPages  int
	loading     bool

	editing *edit
}

// NewBoard creates a board on page 1. Call Load to populate it.
func NewBoard(api TaskAPI, alerter Alerter, logger *slog.Logger) *Board {
	if alerter == nil {
		alerter = AlerterFunc(func(string) {})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		api:         api,
		alerter:     alerter,
		logger:      logger.With("component", "board"),
		tasks:       make(map[string]task.Task),
		currentPage: 1,
		totalPages:  1,
	}
}

// Load refetches the current page.
func (b *Board) Load(ctx context.Context) error {
	return b.fetch(ctx, b.currentPage)
}

// fetch replaces the cached page with page. When a page past the first comes
// back empty, typically because its last task was deleted, the previous page
// is fetched instead before anything is replaced.
func (b *Board) fetch(ctx context.Context, page int) error {
	b.loading = true
	defer func() { b.loading = false }()

	resp, err := b.api.ListTasks(ctx, page, PageSize)
	if err == nil && len(resp.Tasks) == 0 && page > 1 {
		resp, err = b.api.ListTasks(ctx, page-1, PageSize)
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to fetch tasks", "page", page, "error", err)
		b.alerter.Alert(AlertFetchFailed)
		return err
	}

	b.tasks = make(map[string]task.Task, len(resp.Tasks))
	b.order = make([]string, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		if _, dup := b.tasks[t.ID]; !dup {
			b.order = append(b.order, t.ID)
		}
		b.tasks[t.ID] = t
	}
	b.currentPage = resp.CurrentPage
	b.totalPages = resp.TotalPages
	return nil
}

// Tasks returns the cached tasks in server order.
func (b *Board) Tasks() []task.Task {
	out := make([]task.Task, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.tasks[id])
	}
	return out
}

// Task returns the cached task with the given id.
func (b *Board) Task(id string) (task.Task, bool) {
	t, ok := b.tasks[id]
	return t, ok
}

func (b *Board) CurrentPage() int { return b.currentPage }
func (b *Board) TotalPages() int  { return b.totalPages }
func (b *Board) Loading() bool    { return b.loading }

// ShowPagination reports whether pagination controls are shown at all.
func (b *Board) ShowPagination() bool { return b.totalPages > 0 }

// CanPrev reports whether a previous page exists.
func (b *Board) CanPrev() bool { return !b.loading && b.currentPage > 1 }

// CanNext reports whether a next page exists.
func (b *Board) CanNext() bool { return !b.loading && b.currentPage < b.totalPages }

// NextPage moves forward one page. It is a no-op on the last page.
func (b *Board) NextPage(ctx context.Context) error {
	if b.currentPage >= b.totalPages {
		return nil
	}
	return b.fetch(ctx, b.currentPage+1)
}

// PrevPage moves back one page. It is a no-op on the first page.
func (b *Board) PrevPage(ctx context.Context) error {
	if b.currentPage <= 1 {
		return nil
	}
	return b.fetch(ctx, b.currentPage-1)
}

// Add creates a task from d and reloads the current page.
func (b *Board) Add(ctx context.Context, d Draft) error {
	if err := b.checkDraft(d); err != nil {
		return err
	}
	if _, err := b.api.CreateTask(ctx, d.input()); err != nil {
		b.logger.ErrorContext(ctx, "failed to add task", "error", err)
		b.alerter.Alert(alertText(err, AlertAddFailed))
		return err
	}
	return b.Load(ctx)
}

// StartEdit puts the task with the given id into edit mode, replacing any
// edit in progress. It reports whether the task is on the current page.
func (b *Board) StartEdit(id string) bool {
	t, ok := b.tasks[id]
	if !ok {
		return false
	}
	b.editing = &edit{
		id: id,
		draft: Draft{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
		},
	}
	return true
}

// Editing returns the id and draft of the task being edited.
func (b *Board) Editing() (string, Draft, bool) {
	if b.editing == nil {
		return "", Draft{}, false
	}
	return b.editing.id, b.editing.draft, true
}

// SetEditDraft replaces the edit buffer.
func (b *Board) SetEditDraft(d Draft) error {
	if b.editing == nil {
		return ErrNotEditing
	}
	b.editing.draft = d
	return nil
}

// CancelEdit discards the edit buffer.
func (b *Board) CancelEdit() {
	b.editing = nil
}

// SaveEdit submits the edit buffer. If the task no longer exists on the
// server it is dropped from the board and edit mode ends; other failures
// keep the edit open.
func (b *Board) SaveEdit(ctx context.Context) error {
	if b.editing == nil {
		return ErrNotEditing
	}
	id, draft := b.editing.id, b.editing.draft
	if err := b.checkDraft(draft); err != nil {
		return err
	}

	if _, err := b.api.UpdateTask(ctx, id, draft.input()); err != nil {
		b.logger.ErrorContext(ctx, "failed to update task", "task_id", id, "error", err)
		if IsNotFound(err) {
			b.evict(id)
			b.editing = nil
			b.alerter.Alert(AlertTaskNotFound)
			return err
		}
		b.alerter.Alert(alertText(err, AlertUpdateFailed))
		return err
	}

	b.editing = nil
	return b.Load(ctx)
}

// Delete removes the task with the given id and reloads the current page.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.DeleteTask(ctx, id); err != nil {
		b.logger.ErrorContext(ctx, "failed to delete task", "task_id", id, "error", err)
		b.alerter.Alert(alertText(err, AlertDeleteFailed))
		return err
	}
	if b.editing != nil && b.editing.id == id {
		b.editing = nil
	}
	return b.Load(ctx)
}

func (b *Board) checkDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		b.alerter.Alert(AlertTitleRequired)
		return ErrTitleRequired
	}
	if d.DueDate.IsZero() {
		b.alerter.Alert(AlertDueDateRequired)
		return ErrDueDateRequired
	}
	return nil
}

func (b *Board) evict(id string) {
	if _, ok := b.tasks[id]; !ok {
		return
	}
	delete(b.tasks, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

// alertText prefers the server's error message over the fallback.
func alertText(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
