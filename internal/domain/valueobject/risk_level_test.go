package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

func TestRiskLevel_String(t *testing.T) {
	assert.Equal(t, "LOW", valueobject.RiskLevelLow.String())
	assert.Equal(t, "MEDIUM", valueobject.RiskLevelMedium.String())
	assert.Equal(t, "HIGH", valueobject.RiskLevelHigh.String())
}

func TestRiskLevel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskLevel
		wantErr  bool
	}{
		{"LOW", valueobject.RiskLevelLow, false},
		{"MEDIUM", valueobject.RiskLevelMedium, false},
		{"HIGH", valueobject.RiskLevelHigh, false},
		{"CRITICAL", valueobject.RiskLevel{}, true},
		{"low", valueobject.RiskLevel{}, true},
		{"", valueobject.RiskLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskLevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result))
			}
		})
	}
}

func TestRiskLevel_FromScore(t *testing.T) {
	tests := []struct {
		name     string
		expected valueobject.RiskLevel
		score    float64
	}{
		{name: "score 0 is LOW", expected: valueobject.RiskLevelLow, score: 0},
		{name: "score 20 is LOW", expected: valueobject.RiskLevelLow, score: 20},
		{name: "score 49.99 is LOW", expected: valueobject.RiskLevelLow, score: 49.99},
		{name: "score 50 is MEDIUM", expected: valueobject.RiskLevelMedium, score: 50},
		{name: "score 69.99 is MEDIUM", expected: valueobject.RiskLevelMedium, score: 69.99},
		{name: "score 70 is HIGH", expected: valueobject.RiskLevelHigh, score: 70},
		{name: "score 100 is HIGH", expected: valueobject.RiskLevelHigh, score: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valueobject.RiskLevelFromScore(tt.score)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for score %v, got %s", tt.expected.String(), tt.score, result.String())
		})
	}
}

func TestRiskLevel_Label(t *testing.T) {
	assert.Equal(t, "Rendah", valueobject.RiskLevelLow.Label("id"))
	assert.Equal(t, "Sedang", valueobject.RiskLevelMedium.Label("id"))
	assert.Equal(t, "Tinggi", valueobject.RiskLevelHigh.Label("id"))
	assert.Equal(t, "High", valueobject.RiskLevelHigh.Label("en"))
	assert.Equal(t, "MEDIUM", valueobject.RiskLevelMedium.Label("fr"))
}

func TestRiskLevel_Ordinal(t *testing.T) {
	assert.Less(t, valueobject.RiskLevelLow.Ordinal(), valueobject.RiskLevelMedium.Ordinal())
	assert.Less(t, valueobject.RiskLevelMedium.Ordinal(), valueobject.RiskLevelHigh.Ordinal())
	assert.Equal(t, -1, valueobject.RiskLevel{}.Ordinal())
}

func TestRiskLevel_IsZero(t *testing.T) {
	var zero valueobject.RiskLevel
	assert.True(t, zero.IsZero())
	assert.False(t, valueobject.RiskLevelLow.IsZero())
}

func TestRiskLevelFromLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected valueobject.RiskLevel
		ok       bool
	}{
		{"Tinggi", valueobject.RiskLevelHigh, true},
		{"sedang", valueobject.RiskLevelMedium, true},
		{" RENDAH ", valueobject.RiskLevelLow, true},
		{"High", valueobject.RiskLevelHigh, true},
		{"medium", valueobject.RiskLevelMedium, true},
		{"LOW", valueobject.RiskLevelLow, true},
		{"critical", valueobject.RiskLevel{}, false},
		{"", valueobject.RiskLevel{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			level, ok := valueobject.RiskLevelFromLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, level)
		})
	}
}
