package provider

import (
	"context"

	"github.com/kbukum/geokit/resilience"
)

// WithRateLimit holds each call until limiter hands out a token. Calls are
// delayed, never dropped. A nil limiter adds no layer.
func WithRateLimit[I, O any](limiter *resilience.RateLimiter) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if limiter == nil {
			return inner
		}
		return &throttledStage[I, O]{RequestResponse: inner, limiter: limiter}
	}
}

type throttledStage[I, O any] struct {
	RequestResponse[I, O]
	limiter *resilience.RateLimiter
}

func (t *throttledStage[I, O]) Execute(ctx context.Context, input I) (O, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		var zero O
		return zero, err
	}
	return t.RequestResponse.Execute(ctx, input)
}
