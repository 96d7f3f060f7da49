package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/internal/domain/event"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	"github.com/bibbank/cardiorisk/pkg/events"
)

// RiskAssessment is the aggregate root for a patient's cardiovascular risk
// assessment on a given date.
type RiskAssessment struct {
	assessedOn    time.Time
	createdAt     time.Time
	updatedAt     time.Time
	patientRef    string
	bloodPressure string
	level         valueobject.RiskLevel
	measurements  valueobject.ClinicalMeasurements
	activations   service.Activations
	pending       events.Buffer
	score         float64
	version       int
	tenantID      uuid.UUID
	id            uuid.UUID
}

// NewRiskAssessment creates an unscored assessment. A zero assessedOn defaults
// to today (UTC). bloodPressure is the reading as entered, e.g. "130/85"; when
// empty the systolic value is used.
func NewRiskAssessment(
	tenantID uuid.UUID,
	patientRef string,
	assessedOn time.Time,
	measurements valueobject.ClinicalMeasurements,
	bloodPressure string,
) (*RiskAssessment, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenant ID is required", valueobject.ErrInvalidInput)
	}
	patientRef = strings.TrimSpace(patientRef)
	if patientRef == "" {
		return nil, fmt.Errorf("%w: patient reference is required", valueobject.ErrInvalidInput)
	}

	now := time.Now().UTC()
	if assessedOn.IsZero() {
		assessedOn = now
	}
	bloodPressure = strings.TrimSpace(bloodPressure)
	if bloodPressure == "" {
		bloodPressure = strconv.FormatFloat(measurements.SystolicBP(), 'f', -1, 64)
	}

	return &RiskAssessment{
		id:            uuid.New(),
		tenantID:      tenantID,
		patientRef:    patientRef,
		assessedOn:    truncateToDate(assessedOn),
		measurements:  measurements,
		bloodPressure: bloodPressure,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Assess records a computed result on the assessment and raises the
// completion event, plus a high-risk event when the level is HIGH.
func (a *RiskAssessment) Assess(result service.Result) error {
	if result.Level.IsZero() {
		return fmt.Errorf("risk result has no level")
	}
	if result.Score < 0 || result.Score > 100 {
		return fmt.Errorf("risk score must be between 0 and 100, got %v", result.Score)
	}

	a.score = result.Score
	a.level = result.Level
	a.activations = result.Activations
	a.updatedAt = time.Now().UTC()
	a.version++

	a.pending.Add(event.NewAssessmentCompleted(event.AssessmentCompletedData{
		AssessmentID: a.id,
		TenantID:     a.tenantID,
		PatientRef:   a.patientRef,
		RiskScore:    a.score,
		RiskLevel:    a.level.String(),
		Fallback:     a.activations.Fallback,
		AssessedOn:   a.assessedOn,
	}))

	if a.level.Equal(valueobject.RiskLevelHigh) {
		a.pending.Add(event.NewHighRiskDetected(event.HighRiskDetectedData{
			AssessmentID: a.id,
			TenantID:     a.tenantID,
			PatientRef:   a.patientRef,
			RiskScore:    a.score,
			DetectedAt:   a.updatedAt,
		}))
	}

	return nil
}

// Reconstruct rebuilds a RiskAssessment from persisted data (no validation, no events).
func Reconstruct(
	id, tenantID uuid.UUID,
	patientRef string,
	assessedOn time.Time,
	measurements valueobject.ClinicalMeasurements,
	bloodPressure string,
	score float64,
	level valueobject.RiskLevel,
	activations service.Activations,
	version int,
	createdAt, updatedAt time.Time,
) *RiskAssessment {
	return &RiskAssessment{
		id:            id,
		tenantID:      tenantID,
		patientRef:    patientRef,
		assessedOn:    assessedOn,
		measurements:  measurements,
		bloodPressure: bloodPressure,
		score:         score,
		level:         level,
		activations:   activations,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// --- Accessors ---

func (a *RiskAssessment) ID() uuid.UUID                                  { return a.id }
func (a *RiskAssessment) TenantID() uuid.UUID                            { return a.tenantID }
func (a *RiskAssessment) PatientRef() string                             { return a.patientRef }
func (a *RiskAssessment) AssessedOn() time.Time                          { return a.assessedOn }
func (a *RiskAssessment) Measurements() valueobject.ClinicalMeasurements { return a.measurements }
func (a *RiskAssessment) BloodPressure() string                          { return a.bloodPressure }
func (a *RiskAssessment) Score() float64                                 { return a.score }
func (a *RiskAssessment) Level() valueobject.RiskLevel                   { return a.level }
func (a *RiskAssessment) Activations() service.Activations               { return a.activations }
func (a *RiskAssessment) Version() int                                   { return a.version }
func (a *RiskAssessment) CreatedAt() time.Time                           { return a.createdAt }
func (a *RiskAssessment) UpdatedAt() time.Time                           { return a.updatedAt }

// IsAssessed reports whether a result has been recorded.
func (a *RiskAssessment) IsAssessed() bool { return !a.level.IsZero() }

// DomainEvents returns all accumulated domain events and clears them.
func (a *RiskAssessment) DomainEvents() []events.DomainEvent {
	return a.pending.Drain()
}
