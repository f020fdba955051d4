// Package httpclient performs the network half of a geocoding call.
//
// A Client sends one Request, applying the per-request timeout, proxy set,
// authentication and User-Agent, and classifies the answer: 401/403 as auth
// failures, 429 as throttling, 5xx and connection failures as unavailability,
// anything else non-2xx as a failed request. Decode turns JSON, XML or CSV
// bodies into a JSON Document so one path language can read every provider.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{Timeout: 5 * time.Second})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:  http.MethodGet,
//	    Path:    "https://nominatim.openstreetmap.org/search",
//	    Query:   url.Values{"q": {"Ottawa"}, "format": {"jsonv2"}},
//	    Proxies: map[string]string{"https": "http://proxy:3128"},
//	})
//	doc, err := httpclient.Decode(httpclient.FormatJSON, resp.Body)
package httpclient
