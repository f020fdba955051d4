package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/geokit/version"
)

const (
	defaultTimeout = 5 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout. Defaults to 5s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth Credential `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent defaults to geokit/<version>. Nominatim rejects anonymous clients.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Proxies maps a URL scheme (http, https) to a proxy URL. Requests may
	// carry their own set.
	Proxies map[string]string `yaml:"proxies" mapstructure:"proxies"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return validateProxies(c.Proxies)
}

// DefaultUserAgent returns the User-Agent sent when none is configured.
func DefaultUserAgent() string {
	return version.UserAgent("geokit")
}

func validateProxies(proxies map[string]string) error {
	for scheme, raw := range proxies {
		if scheme != "http" && scheme != "https" {
			return fmt.Errorf("httpclient: unsupported proxy scheme %q", scheme)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return fmt.Errorf("httpclient: invalid %s proxy %q", scheme, raw)
		}
	}
	return nil
}
