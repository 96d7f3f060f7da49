package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/cardiorisk/internal/domain/service"
)

func TestDefuzzify(t *testing.T) {
	tests := []struct {
		name     string
		act      service.Activations
		expected float64
	}{
		{"only low", service.Activations{Low: 1}, 20},
		{"only medium", service.Activations{Medium: 0.4}, 50},
		{"only high", service.Activations{High: 0.9}, 70},
		{"low and medium equally", service.Activations{Low: 0.5, Medium: 0.5}, 35},
		{"all three equally", service.Activations{Low: 1, Medium: 1, High: 1}, 140.0 / 3},
		{"zero denominator returns medium anchor", service.Activations{}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, service.Defuzzify(tt.act, service.DefaultAnchors), 1e-9)
		})
	}
}

func TestDefuzzify_Clamped(t *testing.T) {
	wide := service.Anchors{Low: -40, Medium: 50, High: 180}

	assert.Equal(t, 0.0, service.Defuzzify(service.Activations{Low: 1}, wide))
	assert.Equal(t, 100.0, service.Defuzzify(service.Activations{High: 1}, wide))
}

func TestDefaultAnchors_Ordered(t *testing.T) {
	a := service.DefaultAnchors
	assert.Less(t, a.Low, a.Medium)
	assert.Less(t, a.Medium, a.High)
}
