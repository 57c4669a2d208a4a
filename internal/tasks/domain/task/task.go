package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single tracked item of work.
type Task struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	DueDate     time.Time `json:"dueDate" bson:"dueDate"`
}

// NewID returns a fresh time-ordered identifier. UUIDv7 strings sort
// lexicographically in creation order, which every adapter relies on for paging.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewTask builds a task with a newly generated id.
func NewTask(title, description string, dueDate time.Time) (Task, error) {
	id, err := NewID()
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     NormalizeDueDate(dueDate),
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Validate checks the invariants a stored task must hold.
func (t Task) Validate() error {
	var msgs []string
	if strings.TrimSpace(t.ID) == "" {
		msgs = append(msgs, ErrEmptyID.Error())
	}
	if strings.TrimSpace(t.Title) == "" {
		msgs = append(msgs, ErrEmptyTitle.Error())
	}
	if t.DueDate.IsZero() {
		msgs = append(msgs, ErrMissingDueDate.Error())
	}
	if len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}

// WithID returns a copy of the task carrying the given id.
func (t Task) WithID(id string) Task {
	t.ID = id
	return t
}

// NormalizeDueDate converts t to UTC at millisecond precision, the finest
// precision every backend stores (BSON dates hold milliseconds), so what a
// write echoes back matches what a later read returns.
func NormalizeDueDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// ParseDueDate accepts an RFC 3339 timestamp or a calendar date, the latter
// read as midnight UTC. The result is normalized by NormalizeDueDate.
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NormalizeDueDate(t), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", s)
	}
	return NormalizeDueDate(t), nil
}
