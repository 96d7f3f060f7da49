package service

// Degrees holds the membership of one crisp value in the low, medium and high
// fuzzy sets. Each degree lies in [0,1]; they are not required to sum to 1.
type Degrees struct {
	Low    float64
	Medium float64
	High   float64
}

// band returns the degree of the given band.
func (d Degrees) band(b band) float64 {
	switch b {
	case bandLow:
		return d.Low
	case bandMedium:
		return d.Medium
	default:
		return d.High
	}
}

// Membership fuzzifies value against three ordered breakpoints
// (lowBound < midBound < highBound). The shapes are piecewise linear and
// continuous; values outside the breakpoints saturate.
func Membership(value, lowBound, midBound, highBound float64) Degrees {
	var d Degrees

	switch {
	case value <= lowBound:
		d.Low = 1
	case value <= midBound:
		d.Low = (midBound - value) / (midBound - lowBound)
	}

	switch {
	case value <= lowBound || value >= highBound:
		d.Medium = 0
	case value <= midBound:
		d.Medium = (value - lowBound) / (midBound - lowBound)
	default:
		d.Medium = (highBound - value) / (highBound - midBound)
	}

	switch {
	case value >= highBound:
		d.High = 1
	case value > midBound:
		d.High = (value - midBound) / (highBound - midBound)
	}

	return d
}
