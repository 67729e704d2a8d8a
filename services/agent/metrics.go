package agent

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// pipelineMetrics records on the global meter provider, a no-op unless one is installed.
type pipelineMetrics struct {
	quality   metric.Float64Histogram
	fallbacks metric.Int64Counter
	mutations metric.Int64Counter
}

func newPipelineMetrics(meter metric.Meter) (*pipelineMetrics, error) {
	if meter == nil {
		meter = otel.Meter("tableorder/agent")
	}
	m := &pipelineMetrics{}
	var err error

	m.quality, err = meter.Float64Histogram("extraction.quality",
		metric.WithDescription("Advisory quality score of entity extraction"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0),
	)
	if err != nil {
		return nil, err
	}

	m.fallbacks, err = meter.Int64Counter("arbiter.fallbacks",
		metric.WithDescription("Arbiter calls answered with the hard fallback decision"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	m.mutations, err = meter.Int64Counter("cart.mutations",
		metric.WithDescription("Cart mutations applied from agent decisions"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *pipelineMetrics) recordQuality(ctx context.Context, score float64, intent string) {
	m.quality.Record(ctx, score, metric.WithAttributes(attribute.String("intent", intent)))
}

func (m *pipelineMetrics) recordFallback(ctx context.Context, reason string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *pipelineMetrics) recordMutation(ctx context.Context, action string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}
