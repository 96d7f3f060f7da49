package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	pkgkafka "github.com/bibbank/cardiorisk/pkg/kafka"
)

// Assessor runs a risk assessment. *usecase.AssessRisk satisfies it.
type Assessor interface {
	Execute(ctx context.Context, req dto.AssessRiskRequest) (dto.AssessmentResponse, error)
}

// MeasurementSubmitted is the body of a message on the measurements topic.
type MeasurementSubmitted struct {
	AssessedOn string `json:"assessed_on,omitempty"`
	PatientRef string `json:"patient_ref"`
	dto.MeasurementInput
	TenantID uuid.UUID `json:"tenant_id"`
}

// MeasurementConsumer turns submitted measurements into stored assessments.
type MeasurementConsumer struct {
	assessor Assessor
	logger   *slog.Logger
}

// NewMeasurementConsumer creates a consumer handler backed by the assessor.
func NewMeasurementConsumer(assessor Assessor, logger *slog.Logger) *MeasurementConsumer {
	return &MeasurementConsumer{assessor: assessor, logger: logger}
}

// Handle is a pkg/kafka.Handler. Malformed or invalid submissions are logged
// and acknowledged; any other failure is returned so the consumer retries.
func (c *MeasurementConsumer) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var body MeasurementSubmitted
	if err := json.Unmarshal(msg.Value, &body); err != nil {
		c.logger.WarnContext(ctx, "discarding malformed measurement message",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if body.TenantID == uuid.Nil {
		c.logger.WarnContext(ctx, "discarding measurement message without tenant",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
		)
		return nil
	}

	resp, err := c.assessor.Execute(ctx, dto.AssessRiskRequest{
		PatientRef:       body.PatientRef,
		AssessedOn:       body.AssessedOn,
		MeasurementInput: body.MeasurementInput,
		TenantID:         body.TenantID,
	})
	if err != nil {
		if errors.Is(err, valueobject.ErrInvalidInput) {
			c.logger.WarnContext(ctx, "discarding invalid measurement message",
				slog.String("tenant_id", body.TenantID.String()),
				slog.String("patient_ref", body.PatientRef),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("assess submitted measurements: %w", err)
	}

	c.logger.InfoContext(ctx, "assessed submitted measurements",
		slog.String("assessment_id", resp.ID.String()),
		slog.String("risk_level", resp.RiskLevel),
		slog.Float64("risk_score", resp.RiskScore),
	)
	return nil
}
