package valueobject_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

func TestNewClinicalMeasurements(t *testing.T) {
	t.Run("accepts finite non-negative values", func(t *testing.T) {
		m, err := valueobject.NewClinicalMeasurements(45, 130, 220, 27, 8)
		require.NoError(t, err)
		assert.Equal(t, 45.0, m.Age())
		assert.Equal(t, 130.0, m.SystolicBP())
		assert.Equal(t, 220.0, m.Cholesterol())
		assert.Equal(t, 27.0, m.BMI())
		assert.Equal(t, 8.0, m.SmokingYears())
	})

	t.Run("accepts zero", func(t *testing.T) {
		_, err := valueobject.NewClinicalMeasurements(0, 0, 0, 0, 0)
		require.NoError(t, err)
	})

	tests := []struct {
		name  string
		field string
		args  [5]float64
	}{
		{"NaN age", "age", [5]float64{math.NaN(), 120, 200, 22, 0}},
		{"+Inf systolic", "systolic_bp", [5]float64{40, math.Inf(1), 200, 22, 0}},
		{"-Inf cholesterol", "cholesterol", [5]float64{40, 120, math.Inf(-1), 22, 0}},
		{"negative bmi", "bmi", [5]float64{40, 120, 200, -1, 0}},
		{"NaN smoking", "smoking_years", [5]float64{40, 120, 200, 22, math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := valueobject.NewClinicalMeasurements(tt.args[0], tt.args[1], tt.args[2], tt.args[3], tt.args[4])
			require.Error(t, err)
			assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
