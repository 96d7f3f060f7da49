package service

import "math"

// Anchors are the crisp values representing each risk output.
// They must be ordered Low < Medium < High.
type Anchors struct {
	Low    float64
	Medium float64
	High   float64
}

// DefaultAnchors are the canonical crisp anchors.
var DefaultAnchors = Anchors{Low: 20, Medium: 50, High: 70}

const (
	minScore = 0.0
	maxScore = 100.0
)

// Defuzzify collapses activations into a crisp score using the
// activation-weighted average of the anchors, clamped to [0,100].
// A zero total activation yields the medium anchor.
func Defuzzify(act Activations, anchors Anchors) float64 {
	numerator := act.Low*anchors.Low + act.Medium*anchors.Medium + act.High*anchors.High
	denominator := act.Low + act.Medium + act.High
	if denominator == 0 {
		return anchors.Medium
	}
	return math.Max(minScore, math.Min(maxScore, numerator/denominator))
}
