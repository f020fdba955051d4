package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const promNamespace = "geokit"

// PromRecorder exposes dispatch counts and latencies as Prometheus metrics.
type PromRecorder struct {
	RequestsTotal *prometheus.CounterVec
	Duration      *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewPromRecorder creates the collectors and registers them with reg.
// A nil reg uses a fresh registry, which keeps tests isolated.
func NewPromRecorder(reg *prometheus.Registry) *PromRecorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	p := &PromRecorder{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "geocode_requests_total",
			Help:      "Total geocode dispatches by provider, method and outcome.",
		}, []string{"provider", "method", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: promNamespace,
			Name:      "geocode_duration_seconds",
			Help:      "Time spent waiting on a provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider", "method"}),
		gatherer: reg,
	}

	reg.MustRegister(p.RequestsTotal, p.Duration)
	return p
}

// RecordGeocode implements Recorder.
func (p *PromRecorder) RecordGeocode(_ context.Context, provider, method, outcome string, d time.Duration) {
	p.RequestsTotal.WithLabelValues(provider, method, outcome).Inc()
	p.Duration.WithLabelValues(provider, method).Observe(d.Seconds())
}

// Gatherer returns the registry the collectors live in.
func (p *PromRecorder) Gatherer() prometheus.Gatherer {
	return p.gatherer
}

// WriteTextfile writes the current values in the text exposition format,
// for the node exporter textfile collector. The write is atomic.
func (p *PromRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.gatherer)
}
