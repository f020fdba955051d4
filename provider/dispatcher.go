package provider

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/httpclient"
	"github.com/kbukum/geokit/location"
	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/observability"
	"github.com/kbukum/geokit/result"
	"github.com/kbukum/geokit/util"
)

// ProviderSettings are configured overrides for one provider.
type ProviderSettings struct {
	// Options fill fields the caller left zero.
	Options Options
	// RateLimit and Burst replace the adapter's own limits when set.
	RateLimit float64
	Burst     int
}

// DispatcherConfig wires a dispatcher.
type DispatcherConfig struct {
	Registry *Registry
	Pipeline *Pipeline
	// Defaults apply to every provider, after per-provider settings.
	Defaults  Options
	Providers map[string]ProviderSettings
	// Recorder defaults to observability.NopRecorder.
	Recorder observability.Recorder
	// Logger defaults to the "dispatcher" named logger.
	Logger      *logger.Logger
	ServiceName string
	// Clock is handed to builders that need the current time.
	Clock clockwork.Clock
	// Getenv looks up credential environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// Dispatcher validates a request, resolves its adapter and runs it.
// It is safe for concurrent use.
type Dispatcher struct {
	cfg DispatcherConfig
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Recorder == nil {
		cfg.Recorder = observability.NopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get("dispatcher")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "geocode"
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	normalized := make(map[string]ProviderSettings, len(cfg.Providers))
	for k, v := range cfg.Providers {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	cfg.Providers = normalized
	return &Dispatcher{cfg: cfg}
}

// Registry returns the registry the dispatcher validates against.
func (d *Dispatcher) Registry() *Registry {
	return d.cfg.Registry
}

// Call is a validated dispatch, ready to run.
type Call struct {
	Query   *Query
	Adapter *Adapter
	Params  Params
}

// Prepare runs every check that precedes network I/O: provider, method,
// location shape, options, credential and the adapter's parameter builder.
func (d *Dispatcher) Prepare(loc any, providerName, method string, opts Options) (*Call, error) {
	name, adapter, err := d.cfg.Registry.Lookup(providerName, method)
	if err != nil {
		return nil, err
	}

	if err := checkShape(adapter.Method, loc); err != nil {
		return nil, err
	}

	settings := d.cfg.Providers[name]
	opts = opts.Merge(settings.Options).Merge(d.cfg.Defaults)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.Key == "" {
		opts.Key = d.lookupEnv(adapter.Credential.EnvVars)
	}
	if adapter.Credential.Required && opts.Key == "" {
		return nil, geoerrors.MissingCredential(name, adapter.Credential.EnvVars...)
	}

	if settings.RateLimit > 0 {
		limited := *adapter
		limited.RateLimit = settings.RateLimit
		limited.Burst = settings.Burst
		adapter = &limited
	}

	q := &Query{
		Location:  loc,
		Provider:  name,
		Method:    adapter.Method,
		Options:   opts,
		RequestID: uuid.NewString(),
		clock:     d.cfg.Clock,
	}

	params, err := adapter.Build(q)
	if err != nil {
		if appErr, ok := geoerrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, geoerrors.InvalidLocationShape(string(q.Method), err.Error()).WithCause(err)
	}

	return &Call{Query: q, Adapter: adapter, Params: params}, nil
}

// Dispatch geocodes loc with the named provider and method. Validation
// failures are returned as *errors.AppError before any network call.
// Provider and network failures are captured in a result with
// Status == result.StatusError. Only caller cancellation is returned as an
// error after validation.
func (d *Dispatcher) Dispatch(ctx context.Context, loc any, providerName, method string, opts Options) (*result.Result, error) {
	call, err := d.Prepare(loc, providerName, method, opts)
	if err != nil {
		d.recordInvalid(ctx, providerName, method, err)
		return nil, err
	}
	return d.Run(ctx, call)
}

// Run executes a prepared call through logging, metrics and tracing.
func (d *Dispatcher) Run(ctx context.Context, call *Call) (*result.Result, error) {
	q, a := call.Query, call.Adapter

	fetch := d.cfg.Pipeline.Handler(q.Provider, a, call.Params)
	normalize := Adapt(
		fetch,
		q.Provider,
		func(_ context.Context, q *Query) (*Query, error) { return q, nil },
		func(_ context.Context, q *Query, doc httpclient.Document) (*result.Result, error) {
			return q.label(result.Normalize(doc, a.Fields)), nil
		},
	)
	chain := Chain(
		WithLogging[*Query, *result.Result](d.cfg.Logger),
		WithMetrics[*Query, *result.Result](d.cfg.Recorder),
		WithTracing[*Query, *result.Result](d.cfg.ServiceName),
	)(normalize)

	res, err := chain.Execute(logger.ContextWithRequestID(ctx, q.RequestID), q)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		return q.label(result.Failed(httpclient.ToAppError(err, q.Provider))), nil
	}
	return res, nil
}

func (d *Dispatcher) lookupEnv(vars []string) string {
	for _, v := range vars {
		if val := util.SanitizeEnvValue(d.cfg.Getenv(v)); val != "" {
			return val
		}
	}
	return ""
}

func (d *Dispatcher) recordInvalid(ctx context.Context, providerName, method string, err error) {
	fields := logger.Fields(
		logger.FieldProvider, providerName,
		logger.FieldMethod, method,
	)
	if appErr, ok := geoerrors.AsAppError(err); ok {
		fields[logger.FieldErrorCode] = string(appErr.Code)
	}
	d.cfg.Logger.Debug("dispatch rejected", logger.MergeWithError(fields, err))
	d.cfg.Recorder.RecordGeocode(ctx, strings.ToLower(strings.TrimSpace(providerName)), method, observability.OutcomeInvalid, time.Duration(0))
}

// checkShape enforces scalar locations for single methods and non-empty
// sequences for batch methods.
func checkShape(m Method, loc any) error {
	shape := location.ShapeOf(loc)
	if m.IsBatch() {
		if shape != location.ShapeSequence {
			return geoerrors.InvalidLocationShape(string(m), "batch methods take a sequence of locations")
		}
		if items, _ := location.Items(loc); len(items) == 0 {
			return geoerrors.InvalidLocationShape(string(m), "the sequence of locations is empty")
		}
		return nil
	}
	switch shape {
	case location.ShapeScalar:
		return nil
	case location.ShapeSequence:
		return geoerrors.InvalidLocationShape(string(m), "a sequence needs a batch method; pass a single location")
	default:
		return geoerrors.InvalidLocationShape(string(m), "unsupported location type")
	}
}
