package provider

import (
	"context"

	"github.com/kbukum/geokit/observability"
)

// WithTracing opens a span around each call, named after the service and
// the provider the input is labelled with.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracedStage[I, O]{RequestResponse: inner, service: serviceName}
	}
}

type tracedStage[I, O any] struct {
	RequestResponse[I, O]
	service string
}

func (t *tracedStage[I, O]) Execute(ctx context.Context, input I) (O, error) {
	provider, method := labelsOf(t.Name(), input)
	ctx, span := observability.StartQuerySpan(ctx, t.service, provider, method)
	output, err := t.RequestResponse.Execute(ctx, input)
	observability.EndQuerySpan(span, outcomeOf(output, err), err)
	return output, err
}
