package testutil

import (
	"github.com/bibbank/cardiorisk/internal/application/dto"
)

// Float returns a pointer to v, for optional measurement fields.
func Float(v float64) *float64 {
	return &v
}

// Measurements builds a complete measurement input.
func Measurements(age float64, bloodPressure string, cholesterol, bmi, smokingYears float64) dto.MeasurementInput {
	return dto.MeasurementInput{
		Age:           Float(age),
		BloodPressure: bloodPressure,
		Cholesterol:   Float(cholesterol),
		BMI:           Float(bmi),
		SmokingYears:  Float(smokingYears),
	}
}

// MediumRisk scores 58.57 (MEDIUM).
func MediumRisk() dto.MeasurementInput {
	return Measurements(45, "130/85", 220, 27, 8)
}

// HighRisk scores 70 (HIGH).
func HighRisk() dto.MeasurementInput {
	return Measurements(60, "150/95", 260, 33, 25)
}
