package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

func TestComputeRisk_Execute(t *testing.T) {
	uc := usecase.NewComputeRisk(service.NewDecisionEngine(), "id")

	t.Run("scores a medium risk patient", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.ComputeRiskRequest{
			MeasurementInput: measurementInput(45, 220, 27, 8, "130/85"),
		})
		require.NoError(t, err)
		assert.Equal(t, "MEDIUM", resp.RiskLevel)
		assert.Equal(t, "Sedang", resp.RiskLabel)
		assert.InDelta(t, 58.571, resp.RiskScore, 0.001)
	})

	t.Run("scores a low risk patient", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.ComputeRiskRequest{
			MeasurementInput: measurementInput(25, 180, 20, 0, "100"),
		})
		require.NoError(t, err)
		assert.Equal(t, "LOW", resp.RiskLevel)
		assert.InDelta(t, 30.0, resp.RiskScore, 1e-9)
	})

	t.Run("rejects missing measurements", func(t *testing.T) {
		in := measurementInput(45, 220, 27, 8, "130/85")
		in.BMI = nil

		_, err := uc.Execute(context.Background(), dto.ComputeRiskRequest{MeasurementInput: in})
		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
	})
}
