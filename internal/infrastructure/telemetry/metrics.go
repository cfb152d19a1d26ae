package telemetry

import (
	"context"
	"time"

	"askseer-mcp/internal/application/port/output"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var _ output.MetricsPort = (*Metrics)(nil)

type Metrics struct {
	Evaluations        metric.Int64Counter
	EvaluationDuration metric.Float64Histogram
}

// NewMetrics uses the global MeterProvider, so it is safe to call before or
// without Init.
func NewMetrics() (*Metrics, error) {
	return newMetrics(otel.Meter(ServiceName))
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.Evaluations, err = meter.Int64Counter("askseer.evaluations",
		metric.WithDescription("Heuristic evaluations partitioned by outcome and input variant"))
	if err != nil {
		return nil, err
	}

	m.EvaluationDuration, err = meter.Float64Histogram("askseer.evaluation.duration",
		metric.WithDescription("Wall time of one heuristic evaluation"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordEvaluation(ctx context.Context, outcome, variant string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("evaluation.outcome", outcome),
		attribute.String("evaluation.variant", variant),
	)
	m.Evaluations.Add(ctx, 1, attrs)
	m.EvaluationDuration.Record(ctx, duration.Seconds(), attrs)
}
