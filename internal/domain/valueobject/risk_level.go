package valueobject

import (
	"fmt"
	"strings"
)

// Score cut points separating the risk levels.
const (
	HighRiskThreshold   = 70.0
	MediumRiskThreshold = 50.0
)

// RiskLevel is an immutable value object representing the cardiovascular risk classification.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "LOW"}
	RiskLevelMedium = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh   = RiskLevel{value: "HIGH"}
)

var riskLevelLabels = map[string]map[string]string{
	"id": {"LOW": "Rendah", "MEDIUM": "Sedang", "HIGH": "Tinggi"},
	"en": {"LOW": "Low", "MEDIUM": "Medium", "HIGH": "High"},
}

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromLabel matches a display label in any known locale, or the
// canonical string, ignoring case.
func RiskLevelFromLabel(label string) (RiskLevel, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return RiskLevel{}, false
	}
	if r, err := RiskLevelFromString(strings.ToUpper(label)); err == nil {
		return r, true
	}
	for _, labels := range riskLevelLabels {
		for value, l := range labels {
			if strings.EqualFold(l, label) {
				return RiskLevel{value: value}, true
			}
		}
	}
	return RiskLevel{}, false
}

// RiskLevelFromScore derives the RiskLevel from a crisp risk score (0-100).
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskLevelHigh
	case score >= MediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// Label returns the display label for the given locale ("id" or "en").
// Unknown locales fall back to the canonical string.
func (r RiskLevel) Label(locale string) string {
	if labels, ok := riskLevelLabels[locale]; ok {
		if label, ok := labels[r.value]; ok {
			return label
		}
	}
	return r.value
}

// Ordinal returns 0, 1, 2 for LOW, MEDIUM, HIGH and -1 for the zero value.
func (r RiskLevel) Ordinal() int {
	switch r.value {
	case "LOW":
		return 0
	case "MEDIUM":
		return 1
	case "HIGH":
		return 2
	default:
		return -1
	}
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
