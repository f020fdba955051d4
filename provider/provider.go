package provider

import "context"

// Provider is the base interface of anything the dispatcher can call.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that takes one input and returns one
// output. The HTTP client, each adapter call and every middleware layer
// share this shape.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// outcomer is implemented by outputs that can label their own outcome.
type outcomer interface {
	Outcome() string
}

// labeler is implemented by inputs that carry provider and method labels.
type labeler interface {
	Labels() (provider, method string)
}

// fielder is implemented by inputs that describe themselves for logs.
type fielder interface {
	LogFields() map[string]interface{}
}

func outcomeOf(output any, err error) string {
	if err != nil {
		return "error"
	}
	if o, ok := output.(outcomer); ok && o != nil {
		return o.Outcome()
	}
	return "ok"
}

func labelsOf(name string, input any) (string, string) {
	if l, ok := input.(labeler); ok && l != nil {
		return l.Labels()
	}
	return name, "execute"
}
