package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics mirrors PromRecorder on OpenTelemetry instruments, plus an
// in-flight gauge and an error counter the CLI drives per location.
type Metrics struct {
	queries  metric.Int64Counter
	latency  metric.Float64Histogram
	inflight metric.Int64UpDownCounter
	failures metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.queries, err = meter.Int64Counter("geocode.requests",
		metric.WithDescription("Geocode dispatches by provider, method and outcome")); err != nil {
		return nil, fmt.Errorf("geocode.requests: %w", err)
	}
	if m.latency, err = meter.Float64Histogram("geocode.duration",
		metric.WithDescription("Time spent waiting on a provider"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("geocode.duration: %w", err)
	}
	if m.inflight, err = meter.Int64UpDownCounter("geocode.active",
		metric.WithDescription("Locations currently being geocoded")); err != nil {
		return nil, fmt.Errorf("geocode.active: %w", err)
	}
	if m.failures, err = meter.Int64Counter("geocode.errors",
		metric.WithDescription("Failed locations by error code and provider")); err != nil {
		return nil, fmt.Errorf("geocode.errors: %w", err)
	}
	return &m, nil
}

// RecordGeocode implements Recorder.
func (m *Metrics) RecordGeocode(ctx context.Context, provider, method, outcome string, d time.Duration) {
	labels := []attribute.KeyValue{AttrProvider.String(provider), AttrMethod.String(method)}
	m.latency.Record(ctx, d.Seconds(), metric.WithAttributes(labels...))
	m.queries.Add(ctx, 1, metric.WithAttributes(append(labels, AttrOutcome.String(outcome))...))
}

// RecordStart marks one location as in flight.
func (m *Metrics) RecordStart(ctx context.Context) { m.inflight.Add(ctx, 1) }

// RecordEnd clears one in-flight location.
func (m *Metrics) RecordEnd(ctx context.Context) { m.inflight.Add(ctx, -1) }

// RecordError counts a failed location.
func (m *Metrics) RecordError(ctx context.Context, code, provider string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(AttrErrorCode.String(code), AttrProvider.String(provider)))
}
