package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

// DateLayout is the wire format for assessment dates.
const DateLayout = "2006-01-02"

// MeasurementInput carries the five raw clinical inputs. Numeric fields are
// pointers so that an absent value is distinguishable from zero.
type MeasurementInput struct {
	Age           *float64 `json:"age" validate:"required,gte=0"`
	Cholesterol   *float64 `json:"cholesterol" validate:"required,gte=0"`
	BMI           *float64 `json:"bmi" validate:"required,gte=0"`
	SmokingYears  *float64 `json:"smoking_years" validate:"required,gte=0"`
	BloodPressure string   `json:"blood_pressure" validate:"required"`
}

// ToMeasurements validates the input and converts it to the value object.
func (in MeasurementInput) ToMeasurements() (valueobject.ClinicalMeasurements, error) {
	if err := Validate(in); err != nil {
		return valueobject.ClinicalMeasurements{}, err
	}
	systolic, err := ParseSystolic(in.BloodPressure)
	if err != nil {
		return valueobject.ClinicalMeasurements{}, err
	}
	return valueobject.NewClinicalMeasurements(*in.Age, systolic, *in.Cholesterol, *in.BMI, *in.SmokingYears)
}

// ComputeRiskRequest is the input DTO for the stateless ComputeRisk use case.
type ComputeRiskRequest struct {
	MeasurementInput
}

// ActivationsResponse exposes the aggregated rule strengths.
type ActivationsResponse struct {
	Low      float64 `json:"low"`
	Medium   float64 `json:"medium"`
	High     float64 `json:"high"`
	Fallback bool    `json:"fallback"`
}

// ComputeRiskResponse is the output DTO of ComputeRisk.
type ComputeRiskResponse struct {
	RiskLevel   string              `json:"risk_level"`
	RiskLabel   string              `json:"risk_label"`
	Activations ActivationsResponse `json:"activations"`
	RiskScore   float64             `json:"risk_score"`
}

// FromResult maps an engine result to the response DTO, labelling the level
// in the given locale.
func FromResult(r service.Result, locale string) ComputeRiskResponse {
	return ComputeRiskResponse{
		RiskScore:   r.Score,
		RiskLevel:   r.Level.String(),
		RiskLabel:   r.Level.Label(locale),
		Activations: fromActivations(r.Activations),
	}
}

func fromActivations(a service.Activations) ActivationsResponse {
	return ActivationsResponse{Low: a.Low, Medium: a.Medium, High: a.High, Fallback: a.Fallback}
}

// AssessRiskRequest is the input DTO for the AssessRisk use case.
type AssessRiskRequest struct {
	PatientRef string `json:"patient_ref" validate:"required"`
	// AssessedOn is optional and defaults to today.
	AssessedOn string `json:"assessed_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MeasurementInput
	TenantID uuid.UUID `json:"tenant_id"`
}

// AssessedOnDate parses AssessedOn, returning the zero time when unset.
func (r AssessRiskRequest) AssessedOnDate() (time.Time, error) {
	if r.AssessedOn == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, r.AssessedOn)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: assessed_on %q is not a date", valueobject.ErrInvalidInput, r.AssessedOn)
	}
	return t, nil
}

// AssessmentInput is an AssessRiskRequest that passed validation.
type AssessmentInput struct {
	AssessedOn   time.Time
	Measurements valueobject.ClinicalMeasurements
}

// Parse validates the request and converts it to domain values. Storing an
// assessment and previewing one both go through it, so a preview accepts
// exactly what a real write accepts.
func (r AssessRiskRequest) Parse() (AssessmentInput, error) {
	if err := Validate(r); err != nil {
		return AssessmentInput{}, err
	}
	if r.TenantID == uuid.Nil {
		return AssessmentInput{}, fmt.Errorf("%w: tenant is required", valueobject.ErrInvalidInput)
	}
	if strings.TrimSpace(r.PatientRef) == "" {
		return AssessmentInput{}, fmt.Errorf("%w: patient_ref is required", valueobject.ErrInvalidInput)
	}
	m, err := r.ToMeasurements()
	if err != nil {
		return AssessmentInput{}, err
	}
	on, err := r.AssessedOnDate()
	if err != nil {
		return AssessmentInput{}, err
	}
	return AssessmentInput{AssessedOn: on, Measurements: m}, nil
}

// AssessmentResponse is the output DTO returned for a stored assessment.
type AssessmentResponse struct {
	CreatedAt     time.Time           `json:"created_at"`
	PatientRef    string              `json:"patient_ref"`
	AssessedOn    string              `json:"assessed_on"`
	BloodPressure string              `json:"blood_pressure"`
	RiskLevel     string              `json:"risk_level"`
	Activations   ActivationsResponse `json:"activations"`
	Age           float64             `json:"age"`
	SystolicBP    float64             `json:"systolic_bp"`
	Cholesterol   float64             `json:"cholesterol"`
	BMI           float64             `json:"bmi"`
	SmokingYears  float64             `json:"smoking_years"`
	RiskScore     float64             `json:"risk_score"`
	Version       int                 `json:"version"`
	ID            uuid.UUID           `json:"id"`
	TenantID      uuid.UUID           `json:"tenant_id"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.RiskAssessment) AssessmentResponse {
	m := a.Measurements()
	return AssessmentResponse{
		ID:            a.ID(),
		TenantID:      a.TenantID(),
		PatientRef:    a.PatientRef(),
		AssessedOn:    a.AssessedOn().Format(DateLayout),
		Age:           m.Age(),
		SystolicBP:    m.SystolicBP(),
		Cholesterol:   m.Cholesterol(),
		BMI:           m.BMI(),
		SmokingYears:  m.SmokingYears(),
		BloodPressure: a.BloodPressure(),
		RiskScore:     a.Score(),
		RiskLevel:     a.Level().String(),
		Activations:   fromActivations(a.Activations()),
		Version:       a.Version(),
		CreatedAt:     a.CreatedAt(),
	}
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListAssessmentsRequest is the input DTO for browsing assessment history.
// Sort names a column, prefixed with "-" for descending order.
type ListAssessmentsRequest struct {
	Search   string    `json:"q"`
	Sort     string    `json:"sort"`
	Limit    int       `json:"limit" validate:"gte=0"`
	Offset   int       `json:"offset" validate:"gte=0"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// ListAssessmentsResponse is a page of assessment history.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Total       int                  `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}
