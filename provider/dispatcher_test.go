package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/observability"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/resilience"
	"github.com/kbukum/geokit/result"
)

var fakeFields = result.FieldMap{
	List: "results",
	Fields: []result.FieldSpec{
		{Field: result.Latitude, Paths: []string{"lat"}, Coerce: result.CoerceFloat},
		{Field: result.Longitude, Paths: []string{"lng"}, Coerce: result.CoerceFloat},
		{Field: result.Address, Paths: []string{"label"}},
	},
	Required: result.CoordinateFields,
}

func fakeCheck(doc httpclient.Document) error {
	if doc.Get("status").String() == "OVER_QUERY_LIMIT" {
		return geoerrors.RateLimited("fake")
	}
	return nil
}

func fakeRegistry(baseURL string) *provider.Registry {
	geocode := provider.Adapter{
		Method:  provider.MethodGeocode,
		BaseURL: baseURL,
		Path:    "/search",
		Build: func(q *provider.Query) (provider.Params, error) {
			text, err := q.Text()
			if err != nil {
				return provider.Params{}, err
			}
			v := url.Values{"q": {text}}
			if q.Options.Language != "" {
				v.Set("language", q.Options.Language)
			}
			return provider.Params{Values: v}, nil
		},
		Fields: fakeFields,
		Check:  fakeCheck,
	}
	reverse := provider.Adapter{
		Method:  provider.MethodReverse,
		BaseURL: baseURL,
		Path:    "/reverse",
		Build: func(q *provider.Query) (provider.Params, error) {
			c, err := q.Coordinates()
			if err != nil {
				return provider.Params{}, err
			}
			return provider.Params{Values: url.Values{
				"lat": {location.FormatFloat(c.Lat)},
				"lon": {location.FormatFloat(c.Lng)},
			}}, nil
		},
		Fields: fakeFields,
	}
	batch := provider.Adapter{
		Method:  provider.MethodBatch,
		BaseURL: baseURL,
		Path:    "/batch",
		Build: func(q *provider.Query) (provider.Params, error) {
			items, err := q.Items()
			if err != nil {
				return provider.Params{}, err
			}
			v := url.Values{}
			for _, item := range items {
				loc, err := location.Classify(item)
				if err != nil {
					return provider.Params{}, err
				}
				v.Add("q", loc.Text)
			}
			return provider.Params{Values: v}, nil
		},
		Fields: fakeFields,
	}
	keyed := geocode
	keyed.Credential = provider.CredentialSpec{Required: true, EnvVars: []string{"KEYED_API_KEY"}}
	keyed.Build = func(q *provider.Query) (provider.Params, error) {
		return provider.Params{Values: url.Values{"key": {q.Options.Key}}}, nil
	}

	return provider.NewRegistry(
		provider.Descriptor{Name: "fake", Adapters: []provider.Adapter{geocode, reverse, batch}},
		provider.Descriptor{Name: "Keyed", Adapters: []provider.Adapter{keyed}},
	)
}

type fakeServer struct {
	*httptest.Server
	hits atomic.Int32

	mu       sync.Mutex
	lastPath string
	last     url.Values
}

func newFakeServer(t *testing.T, status int, body string) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		fs.mu.Lock()
		fs.lastPath = r.URL.Path
		fs.last = r.URL.Query()
		fs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) query() url.Values {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.last
}

type capturingRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (c *capturingRecorder) RecordGeocode(_ context.Context, provider, method, outcome string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, provider+"/"+method+"/"+outcome)
}

func newDispatcher(t *testing.T, baseURL string, mutate func(*provider.DispatcherConfig)) *provider.Dispatcher {
	t.Helper()
	client, err := httpclient.New(httpclient.Config{Timeout: 2 * time.Second})
	require.NoError(t, err)

	cfg := provider.DispatcherConfig{
		Registry: fakeRegistry(baseURL),
		Pipeline: provider.NewPipeline(client, resilience.NewLimiterSet(nil)),
		Logger:   logger.NewNop(),
		Getenv:   func(string) string { return "" },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return provider.NewDispatcher(cfg)
}

const okBody = `{"results": [{"lat": "45.4215", "lng": "-75.6972", "label": "Ottawa, Ontario"}]}`

func TestDispatch_OK(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, nil)

	res, err := d.Dispatch(context.Background(), "Ottawa, Ontario", " FAKE ", " Geocode ", provider.Options{})
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, "fake", res.Provider)
	assert.Equal(t, "geocode", res.Method)
	assert.Equal(t, "Ottawa, Ontario", res.Location)
	assert.InDelta(t, 45.4215, res.Lat(), 1e-9)
	assert.Equal(t, "Ottawa, Ontario", srv.query().Get("q"))
}

func TestDispatch_EmptyMethodMeansGeocode(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, nil)

	res, err := d.Dispatch(context.Background(), "Ottawa", "fake", "", provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, "geocode", res.Method)
}

func TestDispatch_ValidationErrors(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, nil)

	tests := []struct {
		name     string
		loc      any
		provider string
		method   string
		opts     provider.Options
		want     geoerrors.ErrorCode
	}{
		{"unknown provider", "Ottawa", "nope", "geocode", provider.Options{}, geoerrors.ErrCodeInvalidProvider},
		{"unknown method", "Ottawa", "fake", "elevation", provider.Options{}, geoerrors.ErrCodeInvalidMethod},
		{"garbage method", "Ottawa", "fake", "teleport", provider.Options{}, geoerrors.ErrCodeInvalidMethod},
		{"sequence to single method", []string{"Ottawa", "Paris"}, "fake", "geocode", provider.Options{}, geoerrors.ErrCodeInvalidLocationShape},
		{"scalar to batch", "Ottawa", "fake", "batch", provider.Options{}, geoerrors.ErrCodeInvalidLocationShape},
		{"empty batch", []string{}, "fake", "batch", provider.Options{}, geoerrors.ErrCodeInvalidLocationShape},
		{"unsupported type", 42, "fake", "geocode", provider.Options{}, geoerrors.ErrCodeInvalidLocationShape},
		{"empty location", "  ", "fake", "geocode", provider.Options{}, geoerrors.ErrCodeInvalidLocationShape},
		{"address to reverse", "Ottawa", "fake", "reverse", provider.Options{}, geoerrors.ErrCodeInvalidLocationShape},
		{"max rows out of range", "Ottawa", "fake", "geocode", provider.Options{MaxRows: 500}, geoerrors.ErrCodeInvalidInput},
		{"bad language", "Ottawa", "fake", "geocode", provider.Options{Language: "not a tag!"}, geoerrors.ErrCodeInvalidInput},
		{"bad units", "Ottawa", "fake", "geocode", provider.Options{Units: "parsecs"}, geoerrors.ErrCodeInvalidInput},
		{"missing credential", "Ottawa", "keyed", "geocode", provider.Options{}, geoerrors.ErrCodeMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Dispatch(context.Background(), tt.loc, tt.provider, tt.method, tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, geoerrors.HasCode(err, tt.want), "got %v", err)
		})
	}
	assert.Zero(t, srv.hits.Load(), "validation failures must not reach the network")
}

func TestDispatch_Reverse(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, nil)

	res, err := d.Dispatch(context.Background(), "45.4, -75.7", "fake", "reverse", provider.Options{})
	require.NoError(t, err)
	assert.True(t, res.OK())

	q := srv.query()
	assert.Equal(t, "45.4", q.Get("lat"))
	assert.Equal(t, "-75.7", q.Get("lon"))
}

func TestDispatch_Batch(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, nil)

	res, err := d.Dispatch(context.Background(), []string{"Ottawa", "Toronto"}, "fake", "batch", provider.Options{})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"Ottawa", "Toronto"}, srv.query()["q"])
	assert.Equal(t, "2 locations", res.Location)
}

func TestDispatch_CredentialFromEnvironment(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, func(cfg *provider.DispatcherConfig) {
		cfg.Getenv = func(name string) string {
			if name == "KEYED_API_KEY" {
				return "from-env"
			}
			return ""
		}
	})

	res, err := d.Dispatch(context.Background(), "Ottawa", "keyed", "geocode", provider.Options{})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "from-env", srv.query().Get("key"))

	_, err = d.Dispatch(context.Background(), "Ottawa", "keyed", "geocode", provider.Options{Key: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", srv.query().Get("key"))
}

func TestDispatch_ProviderSettingsAndDefaults(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, func(cfg *provider.DispatcherConfig) {
		cfg.Defaults = provider.Options{Language: "en"}
		cfg.Providers = map[string]provider.ProviderSettings{
			"KEYED": {Options: provider.Options{Key: "configured"}},
		}
	})

	_, err := d.Dispatch(context.Background(), "Ottawa", "fake", "geocode", provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, "en", srv.query().Get("language"))

	_, err = d.Dispatch(context.Background(), "Ottawa", "fake", "geocode", provider.Options{Language: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "fr", srv.query().Get("language"))

	_, err = d.Dispatch(context.Background(), "Ottawa", "keyed", "geocode", provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, "configured", srv.query().Get("key"))
}

func TestDispatch_ProviderFailuresAreCaptured(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   geoerrors.ErrorCode
	}{
		{"server error", http.StatusBadGateway, `{}`, geoerrors.ErrCodeProviderUnavailable},
		{"throttled", http.StatusTooManyRequests, `{}`, geoerrors.ErrCodeRateLimited},
		{"forbidden", http.StatusForbidden, `{}`, geoerrors.ErrCodeAuth},
		{"bad request", http.StatusBadRequest, `bad query`, geoerrors.ErrCodeRequestFailed},
		{"malformed", http.StatusOK, `{"results": [`, geoerrors.ErrCodeMalformedResponse},
		{"in-band error", http.StatusOK, `{"status": "OVER_QUERY_LIMIT"}`, geoerrors.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, tt.status, tt.body)
			d := newDispatcher(t, srv.URL, nil)

			res, err := d.Dispatch(context.Background(), "Ottawa", "fake", "geocode", provider.Options{})
			require.NoError(t, err)
			assert.Equal(t, result.StatusError, res.Status)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.want, res.Err.Code)
			assert.Equal(t, "fake", res.Provider)
		})
	}
}

func TestDispatch_EmptyAnswer(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"results": []}`)
	d := newDispatcher(t, srv.URL, nil)

	res, err := d.Dispatch(context.Background(), "Nowhere", "fake", "geocode", provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, result.StatusEmpty, res.Status)
	assert.False(t, res.OK())
}

func TestDispatch_ConnectionFailure(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	base := srv.URL
	srv.Close()
	d := newDispatcher(t, base, nil)

	res, err := d.Dispatch(context.Background(), "Ottawa", "fake", "geocode", provider.Options{})
	require.NoError(t, err)
	require.NotNil(t, res.Err)
	assert.Equal(t, geoerrors.ErrCodeProviderUnavailable, res.Err.Code)
}

func TestDispatch_CallerCancellation(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := d.Dispatch(ctx, "Ottawa", "fake", "geocode", provider.Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestDispatch_URLOverride(t *testing.T) {
	mirror := newFakeServer(t, http.StatusOK, okBody)
	d := newDispatcher(t, "http://127.0.0.1:1", nil)

	res, err := d.Dispatch(context.Background(), "Ottawa", "fake", "geocode", provider.Options{URL: mirror.URL})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, int32(1), mirror.hits.Load())
}

func TestDispatch_RecordsOutcomes(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	rec := &capturingRecorder{}
	d := newDispatcher(t, srv.URL, func(cfg *provider.DispatcherConfig) {
		cfg.Recorder = rec
	})

	_, err := d.Dispatch(context.Background(), "Ottawa", "fake", "geocode", provider.Options{})
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), "Ottawa", "FAKE", "elevation", provider.Options{})
	require.Error(t, err)

	assert.Equal(t, []string{
		"fake/geocode/" + observability.OutcomeOK,
		"fake/elevation/" + observability.OutcomeInvalid,
	}, rec.calls)
}

func TestPrepare(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	d := newDispatcher(t, "http://127.0.0.1:1", func(cfg *provider.DispatcherConfig) {
		cfg.Clock = clock
		cfg.Providers = map[string]provider.ProviderSettings{"fake": {RateLimit: 2, Burst: 3}}
	})

	call, err := d.Prepare("Ottawa", "Fake", "GEOCODE", provider.Options{})
	require.NoError(t, err)

	assert.Equal(t, "fake", call.Query.Provider)
	assert.Equal(t, provider.MethodGeocode, call.Query.Method)
	assert.Len(t, call.Query.RequestID, 36)
	assert.Equal(t, clock.Now(), call.Query.Now())
	assert.Equal(t, 2.0, call.Adapter.RateLimit)
	assert.Equal(t, 3, call.Adapter.Burst)
	assert.Equal(t, "Ottawa", call.Params.Values.Get("q"))

	adapter, _ := d.Registry().Descriptor("fake")
	original, _ := adapter.Adapter(provider.MethodGeocode)
	assert.Zero(t, original.RateLimit, "settings must not mutate the registry")

	again, err := d.Prepare("Ottawa", "fake", "geocode", provider.Options{})
	require.NoError(t, err)
	assert.NotEqual(t, call.Query.RequestID, again.Query.RequestID)
}

func TestPrepare_BuilderErrors(t *testing.T) {
	reg := provider.NewRegistry(provider.Descriptor{Name: "broken", Adapters: []provider.Adapter{{
		Method: provider.MethodGeocode,
		Build: func(*provider.Query) (provider.Params, error) {
			return provider.Params{}, assert.AnError
		},
	}}})
	d := provider.NewDispatcher(provider.DispatcherConfig{Registry: reg, Logger: logger.NewNop()})

	_, err := d.Prepare("Ottawa", "broken", "", provider.Options{})
	require.Error(t, err)
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidLocationShape))
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, strings.Contains(err.Error(), "geocode"))
}
