package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/service"
)

// ComputeRisk scores measurements without storing anything.
type ComputeRisk struct {
	scorer service.Scorer
	locale string
}

// NewComputeRisk creates a new ComputeRisk use case. locale selects the
// language of the returned risk label.
func NewComputeRisk(scorer service.Scorer, locale string) *ComputeRisk {
	return &ComputeRisk{scorer: scorer, locale: locale}
}

// Execute validates the measurements and returns the score and level.
func (uc *ComputeRisk) Execute(_ context.Context, req dto.ComputeRiskRequest) (dto.ComputeRiskResponse, error) {
	m, err := req.ToMeasurements()
	if err != nil {
		return dto.ComputeRiskResponse{}, fmt.Errorf("failed to compute risk: %w", err)
	}
	return dto.FromResult(uc.scorer.Compute(m), uc.locale), nil
}
