package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/validation"
)

const (
	DefaultProvider = "osm"
	DefaultMethod   = "geocode"
	DefaultTimeout  = 5 * time.Second
)

// Environments accepted in ServiceConfig.Environment.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every binary built on this module needs.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// ProviderConfig holds per-provider settings.
type ProviderConfig struct {
	// Key is the credential sent to the provider.
	Key string `yaml:"key" mapstructure:"key" json:"key"`
	// URL replaces the provider's base URL, e.g. a self-hosted Nominatim.
	URL string `yaml:"url" mapstructure:"url" json:"url" validate:"omitempty,url"`
	// RateLimit overrides the adapter's calls per second.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" json:"rate_limit" validate:"gte=0"`
	// Burst overrides the limiter burst size.
	Burst int `yaml:"burst" mapstructure:"burst" json:"burst" validate:"gte=0"`
	// Options are default query options, in the same shape OptionsFromMap accepts.
	Options map[string]any `yaml:"options" mapstructure:"options" json:"options"`
}

// GeocoderConfig holds dispatcher and CLI defaults.
type GeocoderConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider" json:"default_provider"`
	DefaultMethod   string                    `yaml:"default_method" mapstructure:"default_method" json:"default_method"`
	Timeout         time.Duration             `yaml:"timeout" mapstructure:"timeout" json:"timeout" validate:"gte=0"`
	Retries         int                       `yaml:"retries" mapstructure:"retries" json:"retries" validate:"gte=0,lte=10"`
	Workers         int                       `yaml:"workers" mapstructure:"workers" json:"workers" validate:"gte=0,lte=64"`
	Language        string                    `yaml:"language" mapstructure:"language" json:"language"`
	Proxies         map[string]string         `yaml:"proxies" mapstructure:"proxies" json:"proxies" validate:"omitempty,dive,keys,oneof=http https,endkeys,url"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers" json:"providers" validate:"dive"`
}

// ApplyDefaults fills zero values.
func (g *GeocoderConfig) ApplyDefaults() {
	if g.DefaultProvider == "" {
		g.DefaultProvider = DefaultProvider
	}
	if g.DefaultMethod == "" {
		g.DefaultMethod = DefaultMethod
	}
	if g.Timeout <= 0 {
		g.Timeout = DefaultTimeout
	}
	if g.Workers <= 0 {
		g.Workers = 1
	}
	g.DefaultProvider = strings.ToLower(strings.TrimSpace(g.DefaultProvider))
	g.DefaultMethod = strings.ToLower(strings.TrimSpace(g.DefaultMethod))
}

// Provider returns the settings for name, matched case-insensitively.
func (g *GeocoderConfig) Provider(name string) ProviderConfig {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, v := range g.Providers {
		if strings.ToLower(k) == name {
			return v
		}
	}
	return ProviderConfig{}
}

// Config is the root configuration of the geocode CLI and the geocoder facade.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Geocoder      GeocoderConfig `yaml:"geocoder" mapstructure:"geocoder"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "geocode"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Geocoder.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Geocoder); err != nil {
		return fmt.Errorf("config.geocoder: %w", err)
	}
	return nil
}
