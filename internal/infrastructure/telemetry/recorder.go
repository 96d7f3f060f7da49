// Package telemetry records risk assessment metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

const meterName = "github.com/bibbank/cardiorisk"

var _ port.MetricsRecorder = (*Recorder)(nil)

// Recorder implements port.MetricsRecorder.
type Recorder struct {
	assessments metric.Int64Counter
	fallbacks   metric.Int64Counter
	scores      metric.Float64Histogram
}

// NewRecorder creates the assessment instruments on the given provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	assessments, err := meter.Int64Counter("cardio_assessments_total",
		metric.WithDescription("Risk assessments computed, by risk level."))
	if err != nil {
		return nil, fmt.Errorf("create assessments counter: %w", err)
	}
	fallbacks, err := meter.Int64Counter("cardio_fallback_total",
		metric.WithDescription("Assessments where no rule fired and the medium fallback was used."))
	if err != nil {
		return nil, fmt.Errorf("create fallback counter: %w", err)
	}
	scores, err := meter.Float64Histogram("cardio_risk_score",
		metric.WithDescription("Distribution of crisp risk scores."),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	if err != nil {
		return nil, fmt.Errorf("create score histogram: %w", err)
	}

	return &Recorder{assessments: assessments, fallbacks: fallbacks, scores: scores}, nil
}

// RecordAssessment implements port.MetricsRecorder.
func (r *Recorder) RecordAssessment(ctx context.Context, level valueobject.RiskLevel, score float64, fallback bool) {
	attrs := metric.WithAttributes(attribute.String("level", level.String()))
	r.assessments.Add(ctx, 1, attrs)
	r.scores.Record(ctx, score, attrs)
	if fallback {
		r.fallbacks.Add(ctx, 1)
	}
}
