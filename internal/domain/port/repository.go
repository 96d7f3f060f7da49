package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	"github.com/bibbank/cardiorisk/pkg/events"
)

// ErrAssessmentNotFound is returned when no assessment matches the lookup.
var ErrAssessmentNotFound = errors.New("assessment not found")

// Sortable history columns.
const (
	SortAssessedOn   = "assessed_on"
	SortPatientRef   = "patient_ref"
	SortAge          = "age"
	SortSystolicBP   = "systolic_bp"
	SortCholesterol  = "cholesterol"
	SortBMI          = "bmi"
	SortSmokingYears = "smoking_years"
	SortRiskScore    = "risk_score"
	SortRiskLevel    = "risk_level"
)

var sortKeys = map[string]struct{}{
	SortAssessedOn: {}, SortPatientRef: {}, SortAge: {}, SortSystolicBP: {},
	SortCholesterol: {}, SortBMI: {}, SortSmokingYears: {}, SortRiskScore: {}, SortRiskLevel: {},
}

// IsSortKey reports whether key names a sortable column.
func IsSortKey(key string) bool {
	_, ok := sortKeys[key]
	return ok
}

// ListFilter narrows and orders an assessment history query.
type ListFilter struct {
	// Search matches patient reference, risk level or the raw blood pressure.
	Search     string
	SortBy     string
	Descending bool
	Limit      int
	Offset     int
}

// AssessmentRepository defines the persistence port for risk assessments.
type AssessmentRepository interface {
	// Save persists a new or updated risk assessment.
	Save(ctx context.Context, assessment *model.RiskAssessment) error

	// FindByID retrieves an assessment by its unique identifier.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RiskAssessment, error)

	// List returns a tenant's assessments matching the filter along with the
	// total number of matches before paging.
	List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]*model.RiskAssessment, int, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// MetricsRecorder records assessment outcomes for monitoring.
type MetricsRecorder interface {
	RecordAssessment(ctx context.Context, level valueobject.RiskLevel, score float64, fallback bool)
}
