package provider

import "context"

// Middleware wraps one stage of a call. WithLogging, WithMetrics,
// WithTracing and WithRateLimit are the ones the dispatcher uses.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain stacks middlewares around a stage. The first one listed is the
// outermost; nil entries are skipped, so optional layers can be passed
// unconditionally.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] != nil {
				inner = middlewares[i](inner)
			}
		}
		return inner
	}
}

// Adapt turns a stage speaking [BI, BO] into one speaking [I, O]. The
// pipeline adapts the HTTP client from requests to queries, and the
// dispatcher adapts that again from documents to results.
//
// in builds the inner input. out receives the original input alongside the
// inner output, so a result can be labelled with the query that produced it.
func Adapt[I, O, BI, BO any](
	inner RequestResponse[BI, BO],
	name string,
	in func(ctx context.Context, input I) (BI, error),
	out func(ctx context.Context, input I, output BO) (O, error),
) RequestResponse[I, O] {
	return &stage[I, O, BI, BO]{inner: inner, name: name, in: in, out: out}
}

type stage[I, O, BI, BO any] struct {
	inner RequestResponse[BI, BO]
	name  string
	in    func(context.Context, I) (BI, error)
	out   func(context.Context, I, BO) (O, error)
}

func (s *stage[I, O, BI, BO]) Name() string { return s.name }

func (s *stage[I, O, BI, BO]) IsAvailable(ctx context.Context) bool {
	return s.inner.IsAvailable(ctx)
}

func (s *stage[I, O, BI, BO]) Execute(ctx context.Context, input I) (O, error) {
	var zero O
	req, err := s.in(ctx, input)
	if err != nil {
		return zero, err
	}
	resp, err := s.inner.Execute(ctx, req)
	if err != nil {
		return zero, err
	}
	return s.out(ctx, input, resp)
}

// Func is a RequestResponse backed by a plain function. It is always
// available.
type Func[I, O any] struct {
	ID string
	Fn func(ctx context.Context, input I) (O, error)
}

// Name implements Provider.
func (f Func[I, O]) Name() string { return f.ID }

// IsAvailable implements Provider.
func (f Func[I, O]) IsAvailable(context.Context) bool { return true }

// Execute calls Fn.
func (f Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}
