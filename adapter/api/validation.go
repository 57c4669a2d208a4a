package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	// maxBodyBytes caps request bodies at 1 MiB.
	maxBodyBytes = 1 << 20

	msgInvalidJSON = "Request body must be valid JSON"
)

// taskRequest is the body of create and update requests. Pointers
// distinguish an absent key from an empty value.
type taskRequest struct {
	Title       *string `json:"title" validate:"required,notblank"`
	Description *string `json:"description" validate:"required"`
	DueDate     *string `json:"dueDate" validate:"required,isodate"`
}

// taskFields is a validated taskRequest with the due date parsed.
type taskFields struct {
	Title       string
	Description string
	DueDate     time.Time
}

// fields converts a request that passed check. The due date is parsed here
// once and its error kept, so a request that skipped check cannot yield a
// zero time.
func (req taskRequest) fields() (taskFields, error) {
	if req.Title == nil || req.Description == nil || req.DueDate == nil {
		return taskFields{}, task.NewValidationError("Title, description and due date are required")
	}
	due, err := task.ParseDueDate(*req.DueDate)
	if err != nil {
		return taskFields{}, task.NewValidationError("Due date must be a valid ISO 8601 date")
	}
	return taskFields{Title: *req.Title, Description: *req.Description, DueDate: due}, nil
}

// listRequest holds the parsed paging parameters.
type listRequest struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"pagesize"`
}

// requestValidator validates request DTOs and renders failures as the
// user-facing messages returned in 400 bodies.
type requestValidator struct {
	validate    *validator.Validate
	maxPageSize int
}

func newRequestValidator(maxPageSize int) *requestValidator {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := task.ParseDueDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("pagesize", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= 1 && n <= int64(maxPageSize)
	})
	return &requestValidator{validate: v, maxPageSize: maxPageSize}
}

// check validates req and converts any failures into a task.ValidationError
// whose messages follow field declaration order.
func (rv *requestValidator) check(req any) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, rv.message(fe))
	}
	return task.NewValidationError(msgs...)
}

func (rv *requestValidator) message(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Title":
		return "Title is required"
	case "Description":
		return "Description is required"
	case "DueDate":
		if fe.Tag() == "isodate" {
			return "Due date must be a valid ISO 8601 date"
		}
		return "Due date is required"
	case "Page":
		return "Page must be a positive integer"
	case "Limit":
		return fmt.Sprintf("Limit must be between 1 and %d", rv.maxPageSize)
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// parseListRequest reads page and limit. Each value is read like a lenient
// integer parse: leading whitespace and an optional sign, then the leading
// digit run, so "2abc" is 2 and "1.5" is 1. Values with no leading digits,
// and zero, fall back to the defaults. Anything else is left for validation.
func parseListRequest(r *http.Request) listRequest {
	return listRequest{
		Page:  parseIntParam(r, "page", defaultPage),
		Limit: parseIntParam(r, "limit", defaultLimit),
	}
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	val := strings.TrimLeft(r.URL.Query().Get(key), " \t\n\r")

	end := 0
	if end < len(val) && (val[end] == '+' || val[end] == '-') {
		end++
	}
	digits := end
	for end < len(val) && val[end] >= '0' && val[end] <= '9' {
		end++
	}
	if end == digits {
		return defaultVal
	}

	i, err := strconv.Atoi(val[:end])
	if errors.Is(err, strconv.ErrRange) {
		// Out-of-range values saturate so validation and paging still see their sign.
		if val[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil || i == 0 {
		return defaultVal
	}
	return i
}
