package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	geoerrors "github.com/kbukum/geokit/errors"
)

// nominatim answers every search with one candidate named after the query.
func nominatim(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query().Get("q")
		if q == "" {
			q = r.URL.Query().Get("lat") + "," + r.URL.Query().Get("lon")
		}
		body, _ := json.Marshal([]map[string]any{{
			"place_id":     1,
			"lat":          "45.4211",
			"lon":          "-75.6903",
			"display_name": q,
			"address":      map[string]string{"city": "Ottawa", "country": "Canada"},
		}})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// writeConfig points osm at url and lifts its rate limit.
func writeConfig(t *testing.T, url string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	body := fmt.Sprintf(`name: geocode
logging:
  level: disabled
geocoder:
  providers:
    osm:
      url: %s
      rate_limit: 1000
      burst: 1000
`, url)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func lines(s string) []map[string]any {
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(s), "\n") {
		var m map[string]any
		if json.Unmarshal([]byte(l), &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestRoot_PrintsInInputOrder(t *testing.T) {
	srv, hits := nominatim(t)
	cfg := writeConfig(t, srv.URL)

	inputs := []string{"Ottawa", "Toronto", "Montreal", "Halifax", "Calgary", "Victoria"}
	out, _, err := execute(t, "", append([]string{"--config", cfg, "--workers", "4"}, inputs...)...)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, len(inputs))
	for i, m := range got {
		assert.Equal(t, inputs[i], m["location"])
		assert.Equal(t, "ok", m["status"])
		assert.Equal(t, inputs[i], m["address"])
	}
	assert.Equal(t, int32(len(inputs)), hits.Load())
}

func TestRoot_ReadsStdin(t *testing.T) {
	srv, _ := nominatim(t)
	cfg := writeConfig(t, srv.URL)

	out, _, err := execute(t, "Ottawa\n\n  Toronto  \r\n", "--config", cfg, "--output", "wkt")
	require.NoError(t, err)
	assert.Equal(t, "POINT(-75.6903 45.4211)\nPOINT(-75.6903 45.4211)\n", out)
}

func TestRoot_RejectedInputContinues(t *testing.T) {
	srv, hits := nominatim(t)
	cfg := writeConfig(t, srv.URL)

	out, _, err := execute(t, "", "--config", cfg, "--method", "reverse", "45.4, -75.7", "Ottawa")
	require.ErrorIs(t, err, errInputsFailed)

	got := lines(out)
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0]["status"])
	assert.Equal(t, "Ottawa", got[1]["location"])
	errBody, ok := got[1]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(geoerrors.ErrCodeInvalidLocationShape), errBody["code"])
	assert.Equal(t, int32(1), hits.Load())
}

func TestRoot_MissingCredentialNoNetwork(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	srv, hits := nominatim(t)
	cfg := writeConfig(t, srv.URL)

	out, _, err := execute(t, "", "--config", cfg, "--provider", "google", "--url", srv.URL, "Ottawa")
	require.ErrorIs(t, err, errInputsFailed)
	assert.Contains(t, out, string(geoerrors.ErrCodeMissingCredential))
	assert.Zero(t, hits.Load())
}

func TestRoot_BadFlags(t *testing.T) {
	_, _, err := execute(t, "", "--output", "kml", "Ottawa")
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidInput))

	_, _, err = execute(t, "", "--units", "furlongs", "Ottawa")
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeInvalidInput))
}

func TestRoot_MissingFile(t *testing.T) {
	srv, _ := nominatim(t)
	cfg := writeConfig(t, srv.URL)

	_, _, err := execute(t, "", "--config", cfg, "--file", filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeNotFound))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "nope.yml"), "Ottawa")
	assert.True(t, geoerrors.HasCode(err, geoerrors.ErrCodeNotFound))
}

func TestRoot_RetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"lat": "45.4211", "lon": "-75.6903", "display_name": "Ottawa"}]`))
	}))
	t.Cleanup(srv.Close)
	cfg := writeConfig(t, srv.URL)

	out, _, err := execute(t, "", "--config", cfg, "--retries", "1", "Ottawa")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0]["status"])
	assert.Equal(t, int32(2), hits.Load())
}

func TestRoot_FailedResultWithoutRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	cfg := writeConfig(t, srv.URL)

	out, _, err := execute(t, "", "--config", cfg, "Ottawa")
	require.NoError(t, err, "provider failures are results, not rejections")
	got := lines(out)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0]["status"])
}

func TestRoot_MetricsFile(t *testing.T) {
	srv, _ := nominatim(t)
	cfg := writeConfig(t, srv.URL)
	metrics := filepath.Join(t.TempDir(), "geocode.prom")

	_, _, err := execute(t, "", "--config", cfg, "--metrics-file", metrics, "Ottawa", "Toronto")
	require.NoError(t, err)

	body, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(body), `geokit_geocode_requests_total{method="geocode",outcome="ok",provider="osm"} 2`)
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestRoot_BrokenPipeExitsCleanly(t *testing.T) {
	srv, _ := nominatim(t)
	cfg := writeConfig(t, srv.URL)

	var errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(""), brokenPipe{}, &errOut)
	cmd.SetArgs([]string{"--config", cfg, "Ottawa", "Toronto", "Montreal"})
	assert.NoError(t, cmd.ExecuteContext(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "geocode "), out)

	out, _, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
}

func TestQueryOptions(t *testing.T) {
	f := &flags{key: "k", maxRows: 3, units: "feet", city: "Austin", zipcode: "78701"}
	opts := f.queryOptions()
	assert.Equal(t, "k", opts.Key)
	assert.Equal(t, 3, opts.MaxRows)
	assert.Equal(t, map[string]string{"city": "Austin", "zipcode": "78701"}, opts.Extra)

	assert.Nil(t, (&flags{}).queryOptions().Extra)
}
