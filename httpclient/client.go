package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/http/httpproxy"

	"github.com/kbukum/geokit/util"
)

// maxBodySize caps how much of a provider answer is read.
const maxBodySize = 16 << 20

// Client is a configurable HTTP client with auth, proxies and per-request
// timeouts. It is safe for concurrent use.
type Client struct {
	config Config
	base   *http.Transport

	mu         sync.Mutex
	transports map[string]*http.Transport
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config:     cfg,
		base:       http.DefaultTransport.(*http.Transport).Clone(),
		transports: make(map[string]*http.Transport),
	}, nil
}

// Name identifies the client when it runs behind provider middleware.
func (c *Client) Name() string { return "http" }

// IsAvailable always reports true; reachability is only known per request.
func (c *Client) IsAvailable(context.Context) bool { return true }

// Execute is Do under the provider.RequestResponse contract.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Do(ctx, req)
}

// Do executes one HTTP request and returns the complete response. A non-2xx
// answer returns both the response and a classified *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	timeout := c.config.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	proxies := c.config.Proxies
	if len(req.Proxies) > 0 {
		proxies = req.Proxies
	}
	transport, err := c.transportFor(proxies)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	resp, err := (&http.Client{Transport: transport}).Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
		URL:        RedactURL(httpReq.URL),
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		classErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		return result, classErr
	}

	return result, nil
}

func classifyTransportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return NewCanceledError(err)
	}
	return NewConnectionError(err)
}

// transportFor returns a transport routing through proxies, cached per
// distinct proxy set. An empty set uses the environment's proxy settings.
func (c *Client) transportFor(proxies map[string]string) (*http.Transport, error) {
	if len(proxies) == 0 {
		return c.base, nil
	}
	if err := validateProxies(proxies); err != nil {
		return nil, err
	}

	key := proxyKey(proxies)

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.transports[key]; ok {
		return t, nil
	}

	proxyFunc := (&httpproxy.Config{
		HTTPProxy:  proxies["http"],
		HTTPSProxy: proxies["https"],
	}).ProxyFunc()

	t := c.base.Clone()
	t.Proxy = func(r *http.Request) (*url.URL, error) {
		return proxyFunc(r.URL)
	}
	c.transports[key] = t
	return t, nil
}

func proxyKey(proxies map[string]string) string {
	keys := make([]string, 0, len(proxies))
	for k := range proxies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + proxies[k]
	}
	return strings.Join(parts, ";")
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		target = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json, application/xml;q=0.9, text/csv;q=0.8, */*;q=0.5")

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level credentials override client-level ones.
	cred := req.Auth
	if cred == nil {
		cred = c.config.Auth
	}
	if cred != nil {
		cred.Apply(httpReq)
	}

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *CSVUpload:
		return v.encode()
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// secretParams are query parameters that carry credentials.
var secretParams = map[string]bool{
	"key": true, "apikey": true, "api_key": true, "access_token": true, "token": true,
	"app_id": true, "app_code": true, "ak": true, "client": true, "signature": true,
	"username": true, "license_key": true,
}

// RedactURL renders u with credential query values and userinfo masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.User = nil
	q := clean.Query()
	for k, vs := range q {
		if !secretParams[strings.ToLower(k)] {
			continue
		}
		for i, v := range vs {
			vs[i] = util.MaskSecret(v, 2)
		}
	}
	clean.RawQuery = strings.ReplaceAll(q.Encode(), "%2A%2A%2A", "***")
	return clean.String()
}
