package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

func ptr(v float64) *float64 { return &v }

func validInput() dto.MeasurementInput {
	return dto.MeasurementInput{
		Age:           ptr(45),
		BloodPressure: "130/85",
		Cholesterol:   ptr(220),
		BMI:           ptr(27),
		SmokingYears:  ptr(8),
	}
}

func TestMeasurementInput_ToMeasurements(t *testing.T) {
	m, err := validInput().ToMeasurements()
	require.NoError(t, err)

	assert.Equal(t, 45.0, m.Age())
	assert.Equal(t, 130.0, m.SystolicBP())
	assert.Equal(t, 220.0, m.Cholesterol())
	assert.Equal(t, 27.0, m.BMI())
	assert.Equal(t, 8.0, m.SmokingYears())
}

func TestMeasurementInput_ZeroIsNotMissing(t *testing.T) {
	in := validInput()
	in.SmokingYears = ptr(0)

	m, err := in.ToMeasurements()
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.SmokingYears())
}

func TestMeasurementInput_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.MeasurementInput)
		wantErr string
	}{
		{"missing age", func(in *dto.MeasurementInput) { in.Age = nil }, "age is required"},
		{"missing cholesterol", func(in *dto.MeasurementInput) { in.Cholesterol = nil }, "cholesterol is required"},
		{"missing blood pressure", func(in *dto.MeasurementInput) { in.BloodPressure = "" }, "blood_pressure is required"},
		{"negative bmi", func(in *dto.MeasurementInput) { in.BMI = ptr(-1) }, "bmi must be >= 0"},
		{"negative smoking", func(in *dto.MeasurementInput) { in.SmokingYears = ptr(-2) }, "smoking_years must be >= 0"},
		{"malformed blood pressure", func(in *dto.MeasurementInput) { in.BloodPressure = "high" }, "blood pressure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := in.ToMeasurements()
			require.Error(t, err)
			assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMeasurementInput_ReportsEveryMissingField(t *testing.T) {
	_, err := dto.MeasurementInput{}.ToMeasurements()
	require.Error(t, err)
	for _, field := range []string{"age", "cholesterol", "bmi", "smoking_years", "blood_pressure"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestComputeRiskRequest_JSON(t *testing.T) {
	body := `{"age":45,"blood_pressure":"130/85","cholesterol":220,"bmi":27,"smoking_years":8}`

	var req dto.ComputeRiskRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	m, err := req.ToMeasurements()
	require.NoError(t, err)
	assert.Equal(t, 130.0, m.SystolicBP())
}

func TestAssessRiskRequest_Validation(t *testing.T) {
	req := dto.AssessRiskRequest{MeasurementInput: validInput(), AssessedOn: "09-03-2024"}

	err := dto.Validate(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
	assert.Contains(t, err.Error(), "patient_ref is required")
	assert.Contains(t, err.Error(), "assessed_on")
}

func TestAssessRiskRequest_AssessedOnDate(t *testing.T) {
	on, err := dto.AssessRiskRequest{AssessedOn: "2024-03-09"}.AssessedOnDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), on)

	on, err = dto.AssessRiskRequest{}.AssessedOnDate()
	require.NoError(t, err)
	assert.True(t, on.IsZero())
}

func TestFromResult(t *testing.T) {
	result, err := service.ComputeRisk(60, 150, 260, 33, 25)
	require.NoError(t, err)

	resp := dto.FromResult(result, "id")
	assert.Equal(t, "HIGH", resp.RiskLevel)
	assert.Equal(t, "Tinggi", resp.RiskLabel)
	assert.Equal(t, 70.0, resp.RiskScore)
	assert.Equal(t, 1.0, resp.Activations.High)
}

func TestFromModel(t *testing.T) {
	m, err := valueobject.NewClinicalMeasurements(45, 130, 220, 27, 8)
	require.NoError(t, err)
	a, err := model.NewRiskAssessment(uuid.New(), "P-001", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), m, "130/85")
	require.NoError(t, err)
	require.NoError(t, a.Assess(service.NewDecisionEngine().Compute(m)))

	resp := dto.FromModel(a)
	assert.Equal(t, a.ID(), resp.ID)
	assert.Equal(t, "P-001", resp.PatientRef)
	assert.Equal(t, "2024-03-09", resp.AssessedOn)
	assert.Equal(t, "130/85", resp.BloodPressure)
	assert.Equal(t, 130.0, resp.SystolicBP)
	assert.Equal(t, "MEDIUM", resp.RiskLevel)
	assert.Equal(t, a.Score(), resp.RiskScore)
}
