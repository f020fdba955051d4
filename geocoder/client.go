package geocoder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kbukum/geokit/config"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/observability"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/providers"
	"github.com/kbukum/geokit/resilience"
	"github.com/kbukum/geokit/result"
	"github.com/kbukum/geokit/util"
)

// Client answers geocoding queries against the built-in providers.
// It is safe for concurrent use.
type Client struct {
	cfg        config.GeocoderConfig
	dispatcher *provider.Dispatcher
	log        *logger.Logger
}

type clientOptions struct {
	recorder observability.Recorder
	log      *logger.Logger
	clock    clockwork.Clock
	getenv   func(string) string
	registry *provider.Registry
	limits   bool
}

// Option customizes a Client.
type Option func(*clientOptions)

// WithRecorder sends one observation per dispatch to r.
func WithRecorder(r observability.Recorder) Option {
	return func(o *clientOptions) { o.recorder = r }
}

// WithLogger replaces the "geocoder" named logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithClock sets the clock used by rate limiters and time-dependent builders.
func WithClock(c clockwork.Clock) Option {
	return func(o *clientOptions) { o.clock = c }
}

// WithGetenv replaces os.Getenv for credential lookups.
func WithGetenv(fn func(string) string) Option {
	return func(o *clientOptions) { o.getenv = fn }
}

// WithRegistry replaces the built-in provider registry.
func WithRegistry(r *provider.Registry) Option {
	return func(o *clientOptions) { o.registry = r }
}

// WithoutRateLimits disables provider throttling. Meant for tests against
// local fakes.
func WithoutRateLimits() Option {
	return func(o *clientOptions) { o.limits = false }
}

// New builds a client from configuration. cfg is copied; defaults are applied
// and the result validated.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	o := clientOptions{limits: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("geocoder")
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	if o.registry == nil {
		o.registry = providers.Registry()
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gc := cfg.Geocoder

	client, err := httpclient.New(httpclient.Config{
		Timeout: gc.Timeout,
		Proxies: gc.Proxies,
	})
	if err != nil {
		return nil, fmt.Errorf("geocoder: http client: %w", err)
	}

	var limiters *resilience.LimiterSet
	if o.limits {
		limiters = resilience.NewLimiterSet(o.clock)
		log := o.log
		limiters.OnWait = func(key string, wait time.Duration) {
			log.Debug("waiting for rate limit", logger.Fields("limiter", key, "wait_ms", wait.Milliseconds()))
		}
	}

	settings, err := providerSettings(gc.Providers)
	if err != nil {
		return nil, err
	}

	d := provider.NewDispatcher(provider.DispatcherConfig{
		Registry: o.registry,
		Pipeline: provider.NewPipeline(client, limiters),
		Defaults: provider.Options{
			Language: gc.Language,
			Timeout:  gc.Timeout,
			Proxies:  gc.Proxies,
		},
		Providers:   settings,
		Recorder:    o.recorder,
		Logger:      o.log.WithComponent("dispatcher"),
		ServiceName: cfg.Name,
		Clock:       o.clock,
		Getenv:      o.getenv,
	})

	return &Client{cfg: gc, dispatcher: d, log: o.log}, nil
}

func providerSettings(in map[string]config.ProviderConfig) (map[string]provider.ProviderSettings, error) {
	out := make(map[string]provider.ProviderSettings, len(in))
	for name, pc := range in {
		opts, err := provider.OptionsFromMap(pc.Options)
		if err != nil {
			return nil, fmt.Errorf("geocoder: provider %q options: %w", name, err)
		}
		opts.Key = util.Coalesce(pc.Key, opts.Key)
		opts.URL = util.Coalesce(pc.URL, opts.URL)
		out[strings.ToLower(strings.TrimSpace(name))] = provider.ProviderSettings{
			Options:   opts,
			RateLimit: pc.RateLimit,
			Burst:     pc.Burst,
		}
	}
	return out, nil
}

// Get runs one query. An empty providerName uses the configured default
// provider and an empty method the configured default method.
//
// Validation failures (unknown provider or method, wrong location shape,
// bad options, missing credential) are returned as *errors.AppError before
// any network call. Provider and network failures come back as a result
// with Status == result.StatusError.
func (c *Client) Get(ctx context.Context, loc any, providerName, method string, opts provider.Options) (*result.Result, error) {
	providerName = util.Coalesce(strings.TrimSpace(providerName), c.cfg.DefaultProvider)
	method = util.Coalesce(strings.TrimSpace(method), c.cfg.DefaultMethod)

	res, err := c.dispatcher.Dispatch(ctx, loc, providerName, method, opts)
	if err != nil {
		c.log.Debug("query rejected", logger.MergeWithError(
			logger.QueryFields(providerName, method, fmt.Sprint(loc)), err))
		return nil, err
	}
	if opts.Units != "" && res.OK() {
		return ConvertUnits(res, opts.Units)
	}
	return res, nil
}

// Providers lists the provider names the client accepts.
func (c *Client) Providers() []string {
	return c.dispatcher.Registry().Providers()
}

// Dispatcher exposes the underlying dispatcher for callers that prepare and
// run calls separately.
func (c *Client) Dispatcher() *provider.Dispatcher {
	return c.dispatcher
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the package-level client, building it on first use from
// configuration defaults. Credentials come from each provider's environment
// variables.
func Default() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		c, err := New(config.Config{})
		if err != nil {
			return nil, err
		}
		defaultClient = c
	}
	return defaultClient, nil
}

// SetDefault replaces the package-level client. A nil c restores lazy
// construction on the next call.
func SetDefault(c *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = c
}

// Get runs one query on the package-level client.
func Get(ctx context.Context, loc any, providerName, method string, opts provider.Options) (*result.Result, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, loc, providerName, method, opts)
}
