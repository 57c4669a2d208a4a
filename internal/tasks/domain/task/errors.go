package task

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrEmptyID        = errors.New("task id cannot be empty")
	ErrEmptyTitle     = errors.New("task title cannot be empty")
	ErrMissingDueDate = errors.New("task due date is required")
	ErrTaskNotFound   = errors.New("task not found")
	ErrDuplicateTask  = errors.New("task already exists")
	ErrInvalidPage    = errors.New("page must be a positive integer")
	ErrInvalidLimit   = errors.New("limit must be a positive integer")
	ErrCircuitOpen    = errors.New("storage circuit breaker is open")
)

// ValidationError reports client-supplied data that fails declared constraints.
type ValidationError struct {
	Messages []string
}

// NewValidationError creates a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}

// StorageError reports a backend that is unreachable or rejected an operation.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a failure of the named repository operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is, or wraps, a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// CheckPage validates paging arguments shared by every Repository implementation.
func CheckPage(page, limit int) error {
	var msgs []string
	if page < 1 {
		msgs = append(msgs, ErrInvalidPage.Error())
	}
	if limit < 1 {
		msgs = append(msgs, ErrInvalidLimit.Error())
	}
	if len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}

// Offset returns the number of records preceding the given page. It reports
// false when offset+limit would not fit in an int; no store can hold a record
// that far in, so the page is empty. page and limit must pass CheckPage.
func Offset(page, limit int) (int, bool) {
	if page-1 > (math.MaxInt-limit)/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}
