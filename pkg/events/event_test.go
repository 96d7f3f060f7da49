package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	tenantID := uuid.New()
	payload := []byte(`{"risk_score":58.57}`)

	before := time.Now().UTC()
	event := NewBaseEvent("cardio.assessment.completed", aggregateID, "RiskAssessment", tenantID, payload)
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "cardio.assessment.completed", event.EventType())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "RiskAssessment", event.AggregateType())
	assert.Equal(t, tenantID, event.TenantID())
	assert.Equal(t, payload, event.Payload())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("x", uuid.New(), "RiskAssessment", uuid.New(), nil)
	b := NewBaseEvent("x", uuid.New(), "RiskAssessment", uuid.New(), nil)
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestBuffer(t *testing.T) {
	var b Buffer
	assert.Zero(t, b.Len())
	assert.Nil(t, b.Drain())

	first := NewBaseEvent("first", uuid.New(), "RiskAssessment", uuid.New(), nil)
	second := NewBaseEvent("second", uuid.New(), "RiskAssessment", uuid.New(), nil)
	b.Add(first)
	b.Add(second)
	assert.Equal(t, 2, b.Len())

	drained := b.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, "first", drained[0].EventType())
	assert.Equal(t, "second", drained[1].EventType())
	assert.Zero(t, b.Len())
	assert.Nil(t, b.Drain())
}

func TestMetadata(t *testing.T) {
	aggregateID := uuid.New()
	tenantID := uuid.New()
	evt := NewBaseEvent("cardio.high_risk.detected", aggregateID, "RiskAssessment", tenantID, nil)

	meta := Metadata(evt)
	assert.Equal(t, "cardio.high_risk.detected", meta[MetaEventType])
	assert.Equal(t, evt.EventID().String(), meta[MetaEventID])
	assert.Equal(t, tenantID.String(), meta[MetaTenantID])
	assert.Equal(t, "RiskAssessment", meta[MetaAggregateType])

	at, err := time.Parse(time.RFC3339Nano, meta[MetaOccurredAt])
	require.NoError(t, err)
	assert.True(t, at.Equal(evt.OccurredAt()))
}
