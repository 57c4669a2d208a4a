package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about an aggregate, raised after the change is stored.
// RoutingKey doubles as the topic used on the message broker.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() string
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	Metadata() EventMetadata
}

// EventMetadata links an event back to the request that caused it.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

// BaseEvent is embedded by concrete events. Its fields stay unexported so the
// JSON payload of an event is only its own data.
type BaseEvent struct {
	id         uuid.UUID
	aggregate  string
	kind       string
	routingKey string
	at         time.Time
	md         EventMetadata
}

// NewBaseEvent stamps a new event with a time-ordered id and the current UTC time.
func NewBaseEvent(aggregateID, aggregateType, routingKey string) BaseEvent {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return BaseEvent{
		id:         id,
		aggregate:  aggregateID,
		kind:       aggregateType,
		routingKey: routingKey,
		at:         time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID { return e.id }

func (e BaseEvent) AggregateID() string { return e.aggregate }

func (e BaseEvent) AggregateType() string { return e.kind }

func (e BaseEvent) RoutingKey() string { return e.routingKey }

func (e BaseEvent) OccurredAt() time.Time { return e.at }

func (e BaseEvent) Metadata() EventMetadata { return e.md }

// SetMetadata replaces the event's metadata.
func (e *BaseEvent) SetMetadata(md EventMetadata) { e.md = md }
