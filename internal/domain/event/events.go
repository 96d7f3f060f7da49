package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted when a risk assessment is scored.
	EventTypeAssessmentCompleted = "cardio.assessment.completed"

	// EventTypeHighRiskDetected is emitted when an assessment lands in the HIGH band.
	EventTypeHighRiskDetected = "cardio.high_risk.detected"

	// AggregateTypeRiskAssessment names the aggregate that emits these events.
	AggregateTypeRiskAssessment = "RiskAssessment"
)

// AssessmentCompletedData is the JSON body of AssessmentCompleted.
type AssessmentCompletedData struct {
	AssessedOn   time.Time `json:"assessed_on"`
	PatientRef   string    `json:"patient_ref"`
	RiskLevel    string    `json:"risk_level"`
	RiskScore    float64   `json:"risk_score"`
	Fallback     bool      `json:"fallback"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
}

// AssessmentCompleted is published when a patient's cardiovascular risk has
// been assessed.
type AssessmentCompleted struct {
	events.BaseEvent
	Data AssessmentCompletedData
}

// NewAssessmentCompleted builds an AssessmentCompleted event with its JSON payload.
func NewAssessmentCompleted(data AssessmentCompletedData) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent: events.NewBaseEvent(
			EventTypeAssessmentCompleted, data.AssessmentID, AggregateTypeRiskAssessment, data.TenantID, encode(data),
		),
		Data: data,
	}
}

// HighRiskDetectedData is the JSON body of HighRiskDetected.
type HighRiskDetectedData struct {
	DetectedAt   time.Time `json:"detected_at"`
	PatientRef   string    `json:"patient_ref"`
	RiskScore    float64   `json:"risk_score"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
}

// HighRiskDetected is published alongside AssessmentCompleted when the
// assessment is classified HIGH, so that care teams can follow up.
type HighRiskDetected struct {
	events.BaseEvent
	Data HighRiskDetectedData
}

// NewHighRiskDetected builds a HighRiskDetected event with its JSON payload.
func NewHighRiskDetected(data HighRiskDetectedData) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent: events.NewBaseEvent(
			EventTypeHighRiskDetected, data.AssessmentID, AggregateTypeRiskAssessment, data.TenantID, encode(data),
		),
		Data: data,
	}
}

func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
