package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/service"
)

const tracerName = "github.com/bibbank/cardiorisk/internal/application/usecase"

// AssessRisk is the use case for scoring, storing and announcing a patient's
// risk assessment.
type AssessRisk struct {
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	scorer    service.Scorer
	metrics   port.MetricsRecorder
	tracer    trace.Tracer
}

// NewAssessRisk creates a new AssessRisk use case. metrics may be nil.
func NewAssessRisk(
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	scorer service.Scorer,
	metrics port.MetricsRecorder,
) *AssessRisk {
	return &AssessRisk{
		repo:      repo,
		publisher: publisher,
		scorer:    scorer,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
	}
}

// Execute scores the measurements, persists the assessment and publishes its events.
func (uc *AssessRisk) Execute(ctx context.Context, req dto.AssessRiskRequest) (dto.AssessmentResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "AssessRisk",
		trace.WithAttributes(attribute.String("tenant.id", req.TenantID.String())))
	defer span.End()

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.AssessmentResponse{}, err
	}

	span.SetAttributes(
		attribute.String("assessment.id", resp.ID.String()),
		attribute.String("risk.level", resp.RiskLevel),
		attribute.Float64("risk.score", resp.RiskScore),
	)
	return resp, nil
}

func (uc *AssessRisk) execute(ctx context.Context, req dto.AssessRiskRequest) (dto.AssessmentResponse, error) {
	// 1. Validate and convert the raw input.
	in, err := req.Parse()
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}
	measurements := in.Measurements

	// 2. Create the assessment aggregate.
	assessment, err := model.NewRiskAssessment(req.TenantID, req.PatientRef, in.AssessedOn, measurements, req.BloodPressure)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	// 3. Run the inference engine and record the result.
	result := uc.scorer.Compute(measurements)
	if err := assessment.Assess(result); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to assess risk: %w", err)
	}

	// 4. Persist the assessment.
	if err := uc.repo.Save(ctx, assessment); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	// 5. Publish domain events.
	events := assessment.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.RecordAssessment(ctx, result.Level, result.Score, result.Activations.Fallback)
	}

	return dto.FromModel(assessment), nil
}
