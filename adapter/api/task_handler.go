package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/taskboard/internal/tasks/application/commands"
	"github.com/felixgeelhaar/taskboard/internal/tasks/application/queries"
	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
)

const msgTaskNotFound = "Task not found"

// TaskHandler handles task API requests.
type TaskHandler struct {
	listTasks  *queries.ListTasksHandler
	createTask *commands.CreateTaskHandler
	updateTask *commands.UpdateTaskHandler
	deleteTask *commands.DeleteTaskHandler
	validator  *requestValidator
	logger     *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	ListTasks   *queries.ListTasksHandler
	CreateTask  *commands.CreateTaskHandler
	UpdateTask  *commands.UpdateTaskHandler
	DeleteTask  *commands.DeleteTaskHandler
	MaxPageSize int
	Logger      *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TaskHandler{
		listTasks:  cfg.ListTasks,
		createTask: cfg.CreateTask,
		updateTask: cfg.UpdateTask,
		deleteTask: cfg.DeleteTask,
		validator:  newRequestValidator(cfg.MaxPageSize),
		logger:     cfg.Logger,
	}
}

// ListTasks handles GET /tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	req := parseListRequest(r)
	if err := h.validator.check(req); err != nil {
		h.writeFailure(w, r, err, "Failed to fetch tasks")
		return
	}

	page, err := h.listTasks.Handle(r.Context(), queries.ListTasksQuery{Page: req.Page, Limit: req.Limit})
	if err != nil {
		h.writeFailure(w, r, err, "Failed to fetch tasks")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	body, err := h.decodeTask(w, r)
	if err != nil {
		h.writeFailure(w, r, err, "Failed to create task")
		return
	}

	created, err := h.createTask.Handle(r.Context(), commands.CreateTaskCommand{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
	})
	if err != nil {
		h.writeFailure(w, r, err, "Failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateTask handles PUT /tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	body, err := h.decodeTask(w, r)
	if err != nil {
		h.writeFailure(w, r, err, "Failed to update task")
		return
	}

	updated, err := h.updateTask.Handle(r.Context(), commands.UpdateTaskCommand{
		TaskID:      r.PathValue("id"),
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
	})
	if err != nil {
		h.writeFailure(w, r, err, "Failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteTask handles DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	_, err := h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{TaskID: r.PathValue("id")})
	if err != nil {
		h.writeFailure(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeTask reads and validates a create or update body. Any id in the
// body is ignored.
func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (taskFields, error) {
	var body taskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return taskFields{}, task.NewValidationError(msgInvalidJSON)
	}
	if err := h.validator.check(body); err != nil {
		return taskFields{}, err
	}
	return body.fields()
}

// writeFailure maps an error to its response. Storage details are logged
// and replaced by failMsg.
func (h *TaskHandler) writeFailure(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	var ve *task.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, task.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, msgTaskNotFound)
	default:
		h.logger.ErrorContext(r.Context(), strings.ToLower(failMsg), "error", err)
		writeError(w, http.StatusInternalServerError, failMsg)
	}
}
