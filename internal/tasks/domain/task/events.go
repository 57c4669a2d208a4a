package task

import (
	"github.com/felixgeelhaar/taskboard/internal/shared/domain"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated = "tasks.task.created"
	RoutingKeyUpdated = "tasks.task.updated"
	RoutingKeyDeleted = "tasks.task.deleted"
)

// TaskCreated is emitted when a new task is stored.
type TaskCreated struct {
	domain.BaseEvent
	Task Task `json:"task"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t Task) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(t.ID, AggregateType, RoutingKeyCreated),
		Task:      t,
	}
}

// TaskUpdated is emitted when a task is replaced.
type TaskUpdated struct {
	domain.BaseEvent
	Task Task `json:"task"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t Task) TaskUpdated {
	return TaskUpdated{
		BaseEvent: domain.NewBaseEvent(t.ID, AggregateType, RoutingKeyUpdated),
		Task:      t,
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
	TaskID string `json:"task_id"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(id string) TaskDeleted {
	return TaskDeleted{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyDeleted),
		TaskID:    id,
	}
}
