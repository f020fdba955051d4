package httpclient

import (
	"net/url"
	"time"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method. Defaults to GET.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters. Repeated keys are preserved, which
	// batch endpoints rely on.
	Query url.Values
	// Body is the request body. Accepts *CSVUpload, io.Reader, []byte,
	// string, url.Values (form encoded) or any value that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth Credential
	// Timeout overrides the client timeout for this request.
	Timeout time.Duration
	// Proxies overrides the client proxy set for this request.
	Proxies map[string]string
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// URL is the final request URL with credentials stripped.
	URL string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
