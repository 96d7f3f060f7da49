package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate. Payload carries the JSON body.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
	OccurredAt() time.Time
	Payload() []byte
}

// Metadata keys describing an event outside its payload, e.g. as message
// headers on the broker.
const (
	MetaEventType     = "event_type"
	MetaEventID       = "event_id"
	MetaTenantID      = "tenant_id"
	MetaAggregateType = "aggregate_type"
	MetaOccurredAt    = "occurred_at"
)

// Metadata returns the envelope fields of e keyed by the Meta* constants.
func Metadata(e DomainEvent) map[string]string {
	return map[string]string{
		MetaEventType:     e.EventType(),
		MetaEventID:       e.EventID().String(),
		MetaTenantID:      e.TenantID().String(),
		MetaAggregateType: e.AggregateType(),
		MetaOccurredAt:    e.OccurredAt().Format(time.RFC3339Nano),
	}
}

// BaseEvent provides a default implementation of DomainEvent.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	payload       []byte
	id            uuid.UUID
	aggregateID   uuid.UUID
	tenantID      uuid.UUID
}

// NewBaseEvent creates a new BaseEvent with a generated UUID and the current time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, tenantID uuid.UUID, payload []byte) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		tenantID:      tenantID,
		occurredAt:    time.Now().UTC(),
		payload:       payload,
	}
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.id
}

// EventType returns the type name of this event.
func (e BaseEvent) EventType() string {
	return e.eventType
}

// AggregateID returns the identifier of the aggregate that produced this event.
func (e BaseEvent) AggregateID() uuid.UUID {
	return e.aggregateID
}

// AggregateType returns the type name of the aggregate that produced this event.
func (e BaseEvent) AggregateType() string {
	return e.aggregateType
}

// TenantID returns the tenant that owns the aggregate.
func (e BaseEvent) TenantID() uuid.UUID {
	return e.tenantID
}

// OccurredAt returns the time at which this event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// Payload returns the JSON body.
func (e BaseEvent) Payload() []byte {
	return e.payload
}
