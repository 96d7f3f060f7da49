package kafka_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cardiorisk/internal/domain/event"
	"github.com/bibbank/cardiorisk/internal/infrastructure/kafka"
	"github.com/bibbank/cardiorisk/pkg/events"
	pkgkafka "github.com/bibbank/cardiorisk/pkg/kafka"
)

type mockProducer struct {
	mu       sync.Mutex
	err      error
	topic    string
	messages []pkgkafka.Message
	calls    int
}

func (m *mockProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.topic = topic
	m.messages = append(m.messages, messages...)
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	pub := kafka.NewPublisher(producer, "cardio.events", discardLogger())

	assessmentID := uuid.New()
	tenantID := uuid.New()
	completed := event.NewAssessmentCompleted(event.AssessmentCompletedData{
		AssessmentID: assessmentID,
		TenantID:     tenantID,
		PatientRef:   "P-001",
		RiskLevel:    "HIGH",
		RiskScore:    70,
	})
	high := event.NewHighRiskDetected(event.HighRiskDetectedData{
		AssessmentID: assessmentID,
		TenantID:     tenantID,
		PatientRef:   "P-001",
		RiskScore:    70,
	})

	require.NoError(t, pub.Publish(context.Background(), completed, high))

	assert.Equal(t, "cardio.events", producer.topic)
	require.Len(t, producer.messages, 2)

	first := producer.messages[0]
	assert.Equal(t, assessmentID.String(), string(first.Key))
	assert.Equal(t, completed.Payload(), first.Value)
	assert.Equal(t, event.EventTypeAssessmentCompleted, first.Headers[events.MetaEventType])
	assert.Equal(t, completed.EventID().String(), first.Headers[events.MetaEventID])
	assert.Equal(t, tenantID.String(), first.Headers[events.MetaTenantID])
	assert.Equal(t, event.AggregateTypeRiskAssessment, first.Headers[events.MetaAggregateType])
	assert.NotEmpty(t, first.Headers[events.MetaOccurredAt])

	assert.Equal(t, event.EventTypeHighRiskDetected, producer.messages[1].Headers[events.MetaEventType])
	assert.Equal(t, first.Key, producer.messages[1].Key)
}

func TestPublisher_NoEvents(t *testing.T) {
	producer := &mockProducer{}
	pub := kafka.NewPublisher(producer, "cardio.events", discardLogger())

	require.NoError(t, pub.Publish(context.Background()))
	assert.Zero(t, producer.calls)
}

func TestPublisher_ProducerError(t *testing.T) {
	producer := &mockProducer{err: errors.New("broker unavailable")}
	pub := kafka.NewPublisher(producer, "cardio.events", discardLogger())

	evt := event.NewAssessmentCompleted(event.AssessmentCompletedData{AssessmentID: uuid.New(), TenantID: uuid.New()})
	err := pub.Publish(context.Background(), evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cardio.events")
	assert.Contains(t, err.Error(), "broker unavailable")
}
