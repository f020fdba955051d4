package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/geokit/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to production", func(t *testing.T) {
		cfg := ServiceConfig{Name: "geocode"}
		cfg.ApplyDefaults()
		if cfg.Environment != "production" {
			t.Errorf("expected 'production', got %q", cfg.Environment)
		}
		if cfg.Logging.Output != "stderr" {
			t.Errorf("expected logging to default to stderr, got %q", cfg.Logging.Output)
		}
	})

	t.Run("debug lowers log level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "geocode", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected level 'debug', got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGeocoderConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != "geocode" {
		t.Errorf("expected name 'geocode', got %q", cfg.Name)
	}
	if cfg.Geocoder.DefaultProvider != "osm" || cfg.Geocoder.DefaultMethod != "geocode" {
		t.Errorf("unexpected defaults: %+v", cfg.Geocoder)
	}
	if cfg.Geocoder.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Geocoder.Timeout)
	}
	if cfg.Geocoder.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Geocoder.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestGeocoderConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"negative retries", func(c *Config) { c.Geocoder.Retries = -1 }, true},
		{"too many workers", func(c *Config) { c.Geocoder.Workers = 100 }, true},
		{"bad provider url", func(c *Config) {
			c.Geocoder.Providers = map[string]ProviderConfig{"osm": {URL: "not a url"}}
		}, true},
		{"negative rate", func(c *Config) {
			c.Geocoder.Providers = map[string]ProviderConfig{"osm": {RateLimit: -1}}
		}, true},
		{"bad proxy scheme", func(c *Config) {
			c.Geocoder.Proxies = map[string]string{"ftp": "http://proxy:3128"}
		}, true},
		{"valid proxy", func(c *Config) {
			c.Geocoder.Proxies = map[string]string{"https": "http://proxy:3128"}
		}, false},
		{"self-hosted nominatim", func(c *Config) {
			c.Geocoder.Providers = map[string]ProviderConfig{"osm": {URL: "http://localhost:8080"}}
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGeocoderConfigProviderLookup(t *testing.T) {
	g := GeocoderConfig{Providers: map[string]ProviderConfig{"Google": {Key: "k"}}}
	if got := g.Provider(" google "); got.Key != "k" {
		t.Errorf("expected case-insensitive lookup, got %+v", got)
	}
	if got := g.Provider("bing"); got.Key != "" {
		t.Errorf("expected empty config for unknown provider, got %+v", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeConfig(t, `
name: geocode
environment: staging
geocoder:
  default_provider: arcgis
  timeout: 3s
  retries: 2
  providers:
    osm:
      url: http://localhost:8080
      rate_limit: 10
`)

	var cfg Config
	if err := LoadConfig("geocode", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Geocoder.DefaultProvider != "arcgis" {
		t.Errorf("expected default provider 'arcgis', got %q", cfg.Geocoder.DefaultProvider)
	}
	if cfg.Geocoder.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %v", cfg.Geocoder.Timeout)
	}
	osm := cfg.Geocoder.Provider("osm")
	if osm.URL != "http://localhost:8080" || osm.RateLimit != 10 {
		t.Errorf("unexpected osm config: %+v", osm)
	}
}

func TestLoadConfigEnvOverridesProviderKey(t *testing.T) {
	path := writeConfig(t, `
geocoder:
  providers:
    google:
      url: https://maps.example.com
`)
	t.Setenv("GEOCODER_PROVIDERS_GOOGLE_KEY", `"env-key"`)
	t.Setenv("GEOCODER_RETRIES", "4")

	var cfg Config
	if err := LoadConfig("geocode", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	google := cfg.Geocoder.Provider("google")
	if google.Key != "env-key" {
		t.Errorf("expected key from env, got %q", google.Key)
	}
	if google.URL != "https://maps.example.com" {
		t.Errorf("expected url from file to survive, got %q", google.URL)
	}
	if cfg.Geocoder.Retries != 4 {
		t.Errorf("expected retries 4, got %d", cfg.Geocoder.Retries)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg Config
	err := LoadConfig("geocode", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

type mockFS struct {
	files     map[string]bool
	configDir string
	loaded    []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}
func (m *mockFS) UserConfigDir() (string, error) { return m.configDir, nil }

func TestLocatePrefersServiceDir(t *testing.T) {
	serviceFile := filepath.Join("cmd", "geocode", "config.yml")
	fs := &mockFS{files: map[string]bool{serviceFile: true, "config.yml": true, ".env": true}}
	configFile, envFile := LoaderConfig{FileSystem: fs}.locate("geocode")
	if configFile != serviceFile {
		t.Errorf("expected cmd/geocode/config.yml, got %q", configFile)
	}
	if envFile != ".env" {
		t.Errorf("expected .env, got %q", envFile)
	}
}

func TestLocateFallsBackToUserConfigDir(t *testing.T) {
	userFile := filepath.Join("/home/u/.config", "geokit", "config.yml")
	fs := &mockFS{configDir: "/home/u/.config", files: map[string]bool{userFile: true}}
	configFile, envFile := LoaderConfig{FileSystem: fs}.locate("geocode")
	if configFile != userFile {
		t.Errorf("expected %q, got %q", userFile, configFile)
	}
	if envFile != "" {
		t.Errorf("expected no env file, got %q", envFile)
	}
}

func TestLocateExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"config.yml": true}}
	lc := LoaderConfig{FileSystem: fs, ConfigFile: "/etc/geo.yml", EnvFile: "/etc/geo.env"}
	configFile, envFile := lc.locate("geocode")
	if configFile != "/etc/geo.yml" || envFile != "/etc/geo.env" {
		t.Errorf("expected explicit paths, got %q and %q", configFile, envFile)
	}
}

func TestProviderEnvKey(t *testing.T) {
	tests := []struct {
		env  string
		want string
		ok   bool
	}{
		{"GEOCODER_PROVIDERS_GOOGLE_KEY", "geocoder.providers.google.key", true},
		{"GEOCODER_PROVIDERS_OSM_RATE_LIMIT", "geocoder.providers.osm.rate_limit", true},
		{"GEOCODER_PROVIDERS_OSM", "", false},
		{"GEOCODER_TIMEOUT", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.env, func(t *testing.T) {
			got, ok := providerEnvKey(tc.env)
			if ok != tc.ok || got != tc.want {
				t.Errorf("providerEnvKey(%q) = %q, %v; want %q, %v", tc.env, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("GEOCODER_DEFAULT_PROVIDER")
	want := []string{
		"geocoder_default_provider",
		"geocoder.default_provider",
		"geocoder.default.provider",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("envKeyVariants() = %v, want %v", got, want)
	}

	if got := envKeyVariants("DEBUG"); !reflect.DeepEqual(got, []string{"debug"}) {
		t.Errorf("expected single variant for DEBUG, got %v", got)
	}
}

func TestHasOwnedPrefix(t *testing.T) {
	if !hasOwnedPrefix("GEOCODER_TIMEOUT") || !hasOwnedPrefix("LOGGING_LEVEL") {
		t.Error("expected owned prefixes to match")
	}
	if hasOwnedPrefix("PATH") || hasOwnedPrefix("HOME") {
		t.Error("expected unrelated variables to be ignored")
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem != fs || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
}
