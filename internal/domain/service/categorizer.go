package service

// Breakpoints are the fixed low/mid/high bounds of a trapezoidal variable.
type Breakpoints struct {
	Low  float64
	Mid  float64
	High float64
}

// Clinical breakpoints per variable.
var (
	AgeBreakpoints         = Breakpoints{Low: 30, Mid: 42, High: 50}
	SystolicBPBreakpoints  = Breakpoints{Low: 90, Mid: 120, High: 140}
	CholesterolBreakpoints = Breakpoints{Low: 200, Mid: 240, High: 245}
	BMIBreakpoints         = Breakpoints{Low: 18.5, Mid: 24.9, High: 30}
)

// Smoking history steps, in years.
const (
	smokingLightYears    = 5.0
	smokingModerateYears = 10.0
	smokingHeavyYears    = 20.0
)

// Fuzzify evaluates value against the breakpoints.
func (b Breakpoints) Fuzzify(value float64) Degrees {
	return Membership(value, b.Low, b.Mid, b.High)
}

// CategorizeAge fuzzifies age in years.
func CategorizeAge(years float64) Degrees {
	return AgeBreakpoints.Fuzzify(years)
}

// CategorizeSystolicBP fuzzifies systolic blood pressure in mmHg.
func CategorizeSystolicBP(mmHg float64) Degrees {
	return SystolicBPBreakpoints.Fuzzify(mmHg)
}

// CategorizeCholesterol fuzzifies total cholesterol in mg/dL.
func CategorizeCholesterol(mgdL float64) Degrees {
	return CholesterolBreakpoints.Fuzzify(mgdL)
}

// CategorizeBMI fuzzifies body mass index.
func CategorizeBMI(bmi float64) Degrees {
	return BMIBreakpoints.Fuzzify(bmi)
}

// CategorizeSmokingHistory fuzzifies smoking duration in years. Up to five
// years (including never having smoked) is fully low.
func CategorizeSmokingHistory(years float64) Degrees {
	switch {
	case years <= smokingLightYears:
		return Degrees{Low: 1}
	case years <= smokingModerateYears:
		return Degrees{
			Low:    (smokingModerateYears - years) / (smokingModerateYears - smokingLightYears),
			Medium: (years - smokingLightYears) / (smokingModerateYears - smokingLightYears),
		}
	case years <= smokingHeavyYears:
		return Degrees{
			Medium: (smokingHeavyYears - years) / (smokingHeavyYears - smokingModerateYears),
			High:   (years - smokingModerateYears) / (smokingHeavyYears - smokingModerateYears),
		}
	default:
		return Degrees{High: 1}
	}
}
