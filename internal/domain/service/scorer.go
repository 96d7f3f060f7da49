package service

import "github.com/bibbank/cardiorisk/internal/domain/valueobject"

// Scorer computes a cardiovascular risk result from validated measurements.
// DecisionEngine is the production implementation.
type Scorer interface {
	Compute(m valueobject.ClinicalMeasurements) Result
}

var _ Scorer = (*DecisionEngine)(nil)
