package service

import (
	"fmt"

	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

// Result is the outcome of a single risk computation.
type Result struct {
	Level       valueobject.RiskLevel
	Degrees     [NumVariables]Degrees
	Activations Activations
	Score       float64
}

// DecisionEngine runs fuzzification, rule aggregation, defuzzification and
// classification. It holds no mutable state and is safe for concurrent use.
type DecisionEngine struct {
	anchors Anchors
}

// NewDecisionEngine creates a DecisionEngine using the canonical anchors.
func NewDecisionEngine() *DecisionEngine {
	return &DecisionEngine{anchors: DefaultAnchors}
}

// Compute scores already-validated measurements.
func (e *DecisionEngine) Compute(m valueobject.ClinicalMeasurements) Result {
	var degrees [NumVariables]Degrees
	degrees[VarAge] = CategorizeAge(m.Age())
	degrees[VarSystolicBP] = CategorizeSystolicBP(m.SystolicBP())
	degrees[VarCholesterol] = CategorizeCholesterol(m.Cholesterol())
	degrees[VarBMI] = CategorizeBMI(m.BMI())
	degrees[VarSmoking] = CategorizeSmokingHistory(m.SmokingYears())

	act := Aggregate(degrees)
	score := Defuzzify(act, e.anchors)

	return Result{
		Score:       score,
		Level:       valueobject.RiskLevelFromScore(score),
		Degrees:     degrees,
		Activations: act,
	}
}

// ComputeRisk validates the raw measurements and scores them. Invalid input is
// rejected with an error wrapping valueobject.ErrInvalidInput.
func ComputeRisk(age, systolicBP, cholesterol, bmi, smokingYears float64) (Result, error) {
	m, err := valueobject.NewClinicalMeasurements(age, systolicBP, cholesterol, bmi, smokingYears)
	if err != nil {
		return Result{}, fmt.Errorf("compute risk: %w", err)
	}
	return defaultEngine.Compute(m), nil
}

var defaultEngine = NewDecisionEngine()
