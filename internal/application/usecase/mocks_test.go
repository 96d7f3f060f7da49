package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	"github.com/bibbank/cardiorisk/pkg/events"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	mu           sync.Mutex
	saved        []*model.RiskAssessment
	saveFunc     func(ctx context.Context, assessment *model.RiskAssessment) error
	findByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*model.RiskAssessment, error)
	listFunc     func(ctx context.Context, tenantID uuid.UUID, filter port.ListFilter) ([]*model.RiskAssessment, int, error)
	lastFilter   port.ListFilter
}

func (m *mockAssessmentRepository) Save(ctx context.Context, assessment *model.RiskAssessment) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, assessment); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, assessment)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RiskAssessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return nil, port.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) List(ctx context.Context, tenantID uuid.UUID, filter port.ListFilter) ([]*model.RiskAssessment, int, error) {
	m.mu.Lock()
	m.lastFilter = filter
	m.mu.Unlock()
	if m.listFunc != nil {
		return m.listFunc(ctx, tenantID, filter)
	}
	return nil, 0, nil
}

func (m *mockAssessmentRepository) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, events ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		types = append(types, e.EventType())
	}
	sort.Strings(types)
	return types
}

type recordedAssessment struct {
	level    valueobject.RiskLevel
	score    float64
	fallback bool
}

type mockMetricsRecorder struct {
	mu       sync.Mutex
	recorded []recordedAssessment
}

func (m *mockMetricsRecorder) RecordAssessment(_ context.Context, level valueobject.RiskLevel, score float64, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, recordedAssessment{level: level, score: score, fallback: fallback})
}

type mockExporter struct {
	written []dto.AssessmentResponse
	err     error
}

func (m *mockExporter) WriteAssessments(w io.Writer, assessments []dto.AssessmentResponse) error {
	if m.err != nil {
		return m.err
	}
	m.written = assessments
	_, err := io.WriteString(w, "exported")
	return err
}

func ptr(v float64) *float64 { return &v }

func measurementInput(age, cholesterol, bmi, smoking float64, bp string) dto.MeasurementInput {
	return dto.MeasurementInput{
		Age:           ptr(age),
		BloodPressure: bp,
		Cholesterol:   ptr(cholesterol),
		BMI:           ptr(bmi),
		SmokingYears:  ptr(smoking),
	}
}
