package valueobject

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a measurement is missing, non-finite or negative.
var ErrInvalidInput = errors.New("invalid input")

// ClinicalMeasurements is the validated input vector for a risk computation.
type ClinicalMeasurements struct {
	age          float64
	systolicBP   float64
	cholesterol  float64
	bmi          float64
	smokingYears float64
}

// NewClinicalMeasurements validates the five raw measurements.
// Units: age in years, systolic blood pressure in mmHg, cholesterol in mg/dL,
// BMI unitless, smoking history in years.
func NewClinicalMeasurements(age, systolicBP, cholesterol, bmi, smokingYears float64) (ClinicalMeasurements, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"age", age},
		{"systolic_bp", systolicBP},
		{"cholesterol", cholesterol},
		{"bmi", bmi},
		{"smoking_years", smokingYears},
	}
	for _, f := range fields {
		if err := checkMeasurement(f.name, f.value); err != nil {
			return ClinicalMeasurements{}, err
		}
	}

	return ClinicalMeasurements{
		age:          age,
		systolicBP:   systolicBP,
		cholesterol:  cholesterol,
		bmi:          bmi,
		smokingYears: smokingYears,
	}, nil
}

func checkMeasurement(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, name, v)
	}
	return nil
}

func (m ClinicalMeasurements) Age() float64          { return m.age }
func (m ClinicalMeasurements) SystolicBP() float64   { return m.systolicBP }
func (m ClinicalMeasurements) Cholesterol() float64  { return m.cholesterol }
func (m ClinicalMeasurements) BMI() float64          { return m.bmi }
func (m ClinicalMeasurements) SmokingYears() float64 { return m.smokingYears }
