package provider

import (
	"context"
	"time"

	"github.com/kbukum/geokit/observability"
)

// WithMetrics reports each call to rec under the input's provider and
// method labels and the output's outcome.
func WithMetrics[I, O any](rec observability.Recorder) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &measuredStage[I, O]{RequestResponse: inner, rec: rec}
	}
}

type measuredStage[I, O any] struct {
	RequestResponse[I, O]
	rec observability.Recorder
}

func (m *measuredStage[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.RequestResponse.Execute(ctx, input)
	provider, method := labelsOf(m.Name(), input)
	m.rec.RecordGeocode(ctx, provider, method, outcomeOf(output, err), time.Since(start))
	return output, err
}
