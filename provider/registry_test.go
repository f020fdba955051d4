package provider_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/provider"
)

func TestRegistry(t *testing.T) {
	reg := fakeRegistry("http://localhost")

	assert.Equal(t, []string{"fake", "keyed"}, reg.Providers())
	assert.Equal(t, []provider.Method{provider.MethodGeocode, provider.MethodReverse, provider.MethodBatch}, reg.Methods("FAKE"))
	assert.Nil(t, reg.Methods("missing"))

	name, a, err := reg.Lookup(" Keyed ", "")
	require.NoError(t, err)
	assert.Equal(t, "keyed", name)
	assert.Equal(t, provider.MethodGeocode, a.Method)
	assert.True(t, a.Credential.Required)

	_, _, err = reg.Lookup("nope", "geocode")
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidProvider))
	assert.Contains(t, err.Error(), "fake, keyed")

	name, _, err = reg.Lookup("fake", "timezone")
	assert.Equal(t, "fake", name)
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidMethod))
	assert.Contains(t, err.Error(), "geocode, reverse, batch")
}

func TestRegistryProvidersIsACopy(t *testing.T) {
	reg := fakeRegistry("http://localhost")
	names := reg.Providers()
	names[0] = "mutated"
	assert.Equal(t, "fake", reg.Providers()[0])
}

func TestAdapterEndpoint(t *testing.T) {
	a := provider.Adapter{BaseURL: "https://api.example.com/", Path: "/geocode/{q}.json"}

	assert.Equal(t, "https://api.example.com/geocode/Ottawa%2C%20ON.json",
		a.Endpoint("", provider.Params{PathVars: map[string]string{"q": "Ottawa, ON"}}))
	assert.Equal(t, "http://mirror/geocode/x.json",
		a.Endpoint("http://mirror", provider.Params{PathVars: map[string]string{"q": "x"}}))

	bare := provider.Adapter{BaseURL: "https://ipinfo.io/8.8.8.8/json"}
	assert.Equal(t, "https://ipinfo.io/8.8.8.8/json", bare.Endpoint("", provider.Params{}))
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in    string
		want  provider.Method
		known bool
	}{
		{"", provider.MethodGeocode, true},
		{" Reverse ", provider.MethodReverse, true},
		{"BATCH_REVERSE", provider.MethodBatchReverse, true},
		{"teleport", provider.Method("teleport"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, ok := provider.ParseMethod(tt.in)
			assert.Equal(t, tt.want, m)
			assert.Equal(t, tt.known, ok)
		})
	}

	assert.True(t, provider.MethodBatch.IsBatch())
	assert.True(t, provider.MethodBatchReverse.IsBatch())
	assert.False(t, provider.MethodReverse.IsBatch())
	assert.Len(t, provider.Methods, 10)
}

func TestOptionsFromMap(t *testing.T) {
	opts, err := provider.OptionsFromMap(map[string]any{
		"key":       "secret",
		"maxRows":   "5",
		"timeout":   2.5,
		"proximity": "45.4, -75.7",
		"proxies":   map[string]any{"https": "http://proxy:3128"},
		"Language":  "fr",
		"city":      "Ottawa",
		"zip_code":  12345,
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", opts.Key)
	assert.Equal(t, 5, opts.MaxRows)
	assert.Equal(t, 2500*time.Millisecond, opts.Timeout)
	require.NotNil(t, opts.Proximity)
	assert.Equal(t, location.Coordinates{Lat: 45.4, Lng: -75.7}, *opts.Proximity)
	assert.Equal(t, "http://proxy:3128", opts.Proxies["https"])
	assert.Equal(t, "fr", opts.Language)
	assert.Equal(t, "Ottawa", opts.Get("city"))
	assert.Equal(t, "12345", opts.Get("Zip_Code"))
	assert.NoError(t, opts.Validate())
}

func TestOptionsFromMapDurationsAndPairs(t *testing.T) {
	opts, err := provider.OptionsFromMap(map[string]any{
		"max_rows":  3,
		"timeout":   "750ms",
		"proximity": []float64{10, 20},
		"bbox":      []any{-76.0, 45.0, -75.0, 46.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, opts.MaxRows)
	assert.Equal(t, 750*time.Millisecond, opts.Timeout)
	assert.Equal(t, 20.0, opts.Proximity.Lng)
	assert.Equal(t, []float64{-76, 45, -75, 46}, opts.BBox)

	opts, err = provider.OptionsFromMap(nil)
	require.NoError(t, err)
	assert.Equal(t, provider.Options{}, opts)

	_, err = provider.OptionsFromMap(map[string]any{"proximity": "Ottawa"})
	assert.Error(t, err)
}

func TestOptionsFromMapUnknownKeys(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  map[string]string
	}{
		{"nested map dropped", map[string]any{"a": 1}, nil},
		{"list dropped", []any{"a", "b"}, nil},
		{"bool kept", true, map[string]string{"strict": "true"}},
		{"float kept", 1.5, map[string]string{"strict": "1.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := provider.OptionsFromMap(map[string]any{"language": "en", "strict": tt.value})
			require.NoError(t, err)
			assert.Equal(t, "en", opts.Language)
			assert.Equal(t, tt.want, opts.Extra)
		})
	}
}

func TestOptionsMerge(t *testing.T) {
	defaults := provider.Options{
		Key:      "default-key",
		Language: "en",
		MaxRows:  10,
		Timeout:  5 * time.Second,
		Extra:    map[string]string{"city": "Ottawa", "state": "ON"},
	}
	opts := provider.Options{Language: "fr", Extra: map[string]string{"city": "Toronto"}}

	merged := opts.Merge(defaults)
	assert.Equal(t, "default-key", merged.Key)
	assert.Equal(t, "fr", merged.Language)
	assert.Equal(t, 10, merged.MaxRows)
	assert.Equal(t, 5*time.Second, merged.Timeout)
	assert.Equal(t, map[string]string{"city": "Toronto", "state": "ON"}, merged.Extra)
	assert.Equal(t, map[string]string{"city": "Toronto"}, opts.Extra, "receiver must not change")

	assert.Equal(t, 10, merged.Rows(1))
	assert.Equal(t, 1, provider.Options{}.Rows(1))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts provider.Options
		ok   bool
	}{
		{"zero", provider.Options{}, true},
		{"full", provider.Options{Language: "pt-BR", MaxRows: 100, BBox: []float64{1, 2, 3, 4}, URL: "http://localhost:8080", Units: "feet"}, true},
		{"negative rows", provider.Options{MaxRows: -1}, false},
		{"short bbox", provider.Options{BBox: []float64{1, 2}}, false},
		{"bad url", provider.Options{URL: "not a url"}, false},
		{"bad proxy scheme", provider.Options{Proxies: map[string]string{"ftp": "http://proxy"}}, false},
		{"negative timeout", provider.Options{Timeout: -time.Second}, false},
		{"proximity off the globe", provider.Options{Proximity: &location.Coordinates{Lat: 95, Lng: 10}}, false},
		{"bbox upside down", provider.Options{BBox: []float64{-76, 46, -75, 45}}, false},
		{"bbox across the antimeridian", provider.Options{BBox: []float64{170, -20, -170, -10}}, true},
		{"bbox longitude out of range", provider.Options{BBox: []float64{-190, 45, -75, 46}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	q := provider.NewQuery("45.4, -75.7", "osm", provider.MethodReverse, provider.Options{})

	c, err := q.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, location.Coordinates{Lat: 45.4, Lng: -75.7}, c)

	text, err := q.Text()
	require.NoError(t, err)
	assert.Equal(t, "45.4, -75.7", text)

	p, m := q.Labels()
	assert.Equal(t, "osm", p)
	assert.Equal(t, "reverse", m)
	assert.Equal(t, "45.4, -75.7", q.LogFields()["location"])
	assert.False(t, q.Now().IsZero())

	_, err = provider.NewQuery("Ottawa", "osm", provider.MethodReverse, provider.Options{}).Coordinates()
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidLocationShape))

	_, err = provider.NewQuery("Ottawa", "osm", provider.MethodBatch, provider.Options{}).Items()
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidLocationShape))
}
