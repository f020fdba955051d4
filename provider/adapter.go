package provider

import (
	"net/url"
	"strings"

	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/result"
)

// ParamBuilder turns a query into request parameters. It runs before any
// network I/O and fails with an InvalidLocationShape or MissingCredential
// AppError when the query cannot be served.
type ParamBuilder func(q *Query) (Params, error)

// Params are the request parts a builder produces.
type Params struct {
	// Values are query parameters, or the form body for POST adapters.
	Values url.Values
	// PathVars fill {name} placeholders in the adapter path.
	PathVars map[string]string
	// Body replaces Values as the request body when set.
	Body any
	// Headers are extra request headers.
	Headers map[string]string
	// Auth attaches credentials outside the query string.
	Auth httpclient.Credential
}

// CredentialSpec describes the key an adapter needs.
type CredentialSpec struct {
	// Required makes a missing key fail before the builder runs.
	Required bool
	// EnvVars are consulted in order when no key was supplied.
	EnvVars []string
}

// Adapter implements one provider method: an endpoint, a parameter builder
// and a field map.
type Adapter struct {
	Method Method
	// BaseURL is the scheme and host, e.g. "https://nominatim.openstreetmap.org".
	BaseURL string
	// Path may hold {name} placeholders filled from Params.PathVars.
	Path string
	// HTTPMethod defaults to GET.
	HTTPMethod string
	// Format is the wire format of the answer. Defaults to JSON.
	Format httpclient.Format
	// Defaults are literal parameters; builder values win.
	Defaults url.Values
	Build    ParamBuilder
	Fields   result.FieldMap
	// Check classifies errors a provider reports inside a 2xx body.
	Check      func(doc httpclient.Document) error
	Credential CredentialSpec
	// RateLimit is requests per second shared by every caller. Zero means
	// unlimited.
	RateLimit float64
	Burst     int
}

// Endpoint resolves the request URL for params, honoring a base URL
// override.
func (a *Adapter) Endpoint(override string, params Params) string {
	base := a.BaseURL
	if override != "" {
		base = override
	}
	path := a.Path
	for k, v := range params.PathVars {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Descriptor names a provider and the methods it implements.
type Descriptor struct {
	Name     string
	Adapters []Adapter
}

// Adapter returns the adapter for m.
func (d Descriptor) Adapter(m Method) (*Adapter, bool) {
	for i := range d.Adapters {
		if d.Adapters[i].Method == m {
			return &d.Adapters[i], true
		}
	}
	return nil, false
}

// Methods lists the methods the provider implements, in declaration order.
func (d Descriptor) Methods() []Method {
	out := make([]Method, len(d.Adapters))
	for i, a := range d.Adapters {
		out[i] = a.Method
	}
	return out
}
