package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders(" Authorization=Basic abc=, x-team = ui ,broken,=skip")

	assert.Equal(t, map[string]string{
		"Authorization": "Basic abc=",
		"x-team":        "ui",
	}, headers)
	assert.Empty(t, parseHeaders(""))
}

func TestInit_NoEndpoint(t *testing.T) {
	tel, err := Init(context.Background(), Config{})
	require.NoError(t, err)

	assert.NotNil(t, tel.Tracer)
	assert.NotNil(t, tel.Metrics)

	_, span := tel.Tracer.Start(context.Background(), "noop")
	span.End()
	tel.Metrics.RecordEvaluation(context.Background(), "success", "url", time.Second)

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestInit_InvalidEndpoint(t *testing.T) {
	_, err := Init(context.Background(), Config{Endpoint: "not a url"})
	assert.Error(t, err)
}

func TestMetrics_RecordEvaluation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := newMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEvaluation(ctx, "success", "url", 2*time.Second)
	m.RecordEvaluation(ctx, "NavigationError", "url", time.Second)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}

	counter, ok := byName["askseer.evaluations"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, counter.DataPoints, 2)

	histogram, ok := byName["askseer.evaluation.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range histogram.DataPoints {
		count += dp.Count
	}
	assert.EqualValues(t, 2, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordEvaluation(context.Background(), "success", "image", time.Millisecond)
	})
}
