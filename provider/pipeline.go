package provider

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/resilience"
)

var _ RequestResponse[httpclient.Request, *httpclient.Response] = (*httpclient.Client)(nil)

// Pipeline executes adapter requests over one shared HTTP client. Rate
// limits are shared per provider and method across every caller of the
// pipeline.
type Pipeline struct {
	client   *httpclient.Client
	limiters *resilience.LimiterSet
}

// NewPipeline creates a pipeline. A nil limiter set disables rate limiting.
func NewPipeline(client *httpclient.Client, limiters *resilience.LimiterSet) *Pipeline {
	return &Pipeline{client: client, limiters: limiters}
}

// Request builds the HTTP request for one adapter call. Builder values
// override the adapter's literal defaults.
func (p *Pipeline) Request(a *Adapter, q *Query, params Params) httpclient.Request {
	values := make(url.Values, len(a.Defaults)+len(params.Values))
	for k, vs := range a.Defaults {
		values[k] = append([]string(nil), vs...)
	}
	for k, vs := range params.Values {
		values[k] = append([]string(nil), vs...)
	}

	req := httpclient.Request{
		Method:  a.HTTPMethod,
		Path:    a.Endpoint(q.Options.URL, params),
		Headers: params.Headers,
		Auth:    params.Auth,
		Timeout: q.Options.Timeout,
		Proxies: q.Options.Proxies,
	}
	switch {
	case params.Body != nil:
		req.Body = params.Body
		req.Query = values
	case a.HTTPMethod == http.MethodPost:
		req.Body = values
	default:
		req.Query = values
	}
	return req
}

// Decode turns a response body into a document and runs the adapter's
// in-band error check.
func (p *Pipeline) Decode(a *Adapter, body []byte) (httpclient.Document, error) {
	doc, err := httpclient.Decode(a.Format, body)
	if err != nil {
		return nil, err
	}
	if a.Check != nil {
		if err := a.Check(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Handler returns the call chain for one adapter: wait for the shared rate
// limiter, send the request, decode the answer.
func (p *Pipeline) Handler(name string, a *Adapter, params Params) RequestResponse[*Query, httpclient.Document] {
	call := Adapt(
		RequestResponse[httpclient.Request, *httpclient.Response](p.client),
		name,
		func(_ context.Context, q *Query) (httpclient.Request, error) {
			return p.Request(a, q, params), nil
		},
		func(_ context.Context, _ *Query, resp *httpclient.Response) (httpclient.Document, error) {
			return p.Decode(a, resp.Body)
		},
	)
	return WithRateLimit[*Query, httpclient.Document](p.limiterFor(name, a))(call)
}

// Execute performs one adapter call and returns the decoded document.
// Failures are *httpclient.Error or the adapter's own AppError.
func (p *Pipeline) Execute(ctx context.Context, name string, a *Adapter, q *Query, params Params) (httpclient.Document, error) {
	return p.Handler(name, a, params).Execute(ctx, q)
}

func (p *Pipeline) limiterFor(name string, a *Adapter) *resilience.RateLimiter {
	if p.limiters == nil {
		return nil
	}
	return p.limiters.Get(name+":"+string(a.Method), a.RateLimit, a.Burst)
}
