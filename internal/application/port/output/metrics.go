package output

import (
	"context"
	"time"
)

type MetricsPort interface {
	RecordEvaluation(ctx context.Context, outcome, variant string, duration time.Duration)
}

type NopMetrics struct{}

func (NopMetrics) RecordEvaluation(context.Context, string, string, time.Duration) {}
