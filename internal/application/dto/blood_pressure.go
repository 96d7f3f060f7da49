package dto

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

// ParseSystolic extracts the systolic value from a blood pressure reading.
// It accepts a bare number ("130") or a systolic/diastolic pair ("130/85"),
// with surrounding whitespace allowed around either part.
func ParseSystolic(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	systolic, diastolic, paired := strings.Cut(s, "/")

	v, err := parseReading(systolic)
	if err != nil {
		return 0, fmt.Errorf("%w: blood pressure %q: systolic %v", valueobject.ErrInvalidInput, raw, err)
	}
	if paired {
		if _, err := parseReading(diastolic); err != nil {
			return 0, fmt.Errorf("%w: blood pressure %q: diastolic %v", valueobject.ErrInvalidInput, raw, err)
		}
	}
	return v, nil
}

func parseReading(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("is not a number")
	}
	return v, nil
}
