package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/geokit/config"
	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/geocoder"
	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/provider"
	"github.com/kbukum/geokit/resilience"
	"github.com/kbukum/geokit/result"
)

const serviceName = "geocode"

func run(cmd *cobra.Command, f *flags, s streams, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	log := newLogger(cfg, s.errOut)

	if len(args) == 0 && len(f.files) == 0 && isTerminal(s.in) {
		return cmd.Help()
	}
	locations, err := readInputs(args, f.files, s.in)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		log.Warn("no locations given")
		return nil
	}

	tel, err := setupTelemetry(ctx, f, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := tel.close(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	client, err := geocoder.New(*cfg, geocoder.WithRecorder(tel.recorder), geocoder.WithLogger(log))
	if err != nil {
		return err
	}

	r := &runner{
		client:   client,
		provider: cfg.Geocoder.DefaultProvider,
		method:   cfg.Geocoder.DefaultMethod,
		opts:     f.queryOptions(),
		output:   f.output,
		retries:  cfg.Geocoder.Retries,
		workers:  cfg.Geocoder.Workers,
		out:      s.out,
		bar:      newProgress(s.errOut, len(locations)),
		tel:      tel,
		log:      log,
	}
	return r.run(ctx, locations)
}

// loadConfig reads the config file and environment, then lets explicit
// flags win.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	var cfg config.Config
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}

	g := &cfg.Geocoder
	if f.provider != "" {
		g.DefaultProvider = f.provider
	}
	if f.method != "" {
		g.DefaultMethod = f.method
	}
	if f.timeout > 0 {
		g.Timeout = f.timeout
	}
	if f.language != "" {
		g.Language = f.language
	}
	if len(f.proxies) > 0 {
		g.Proxies = f.proxies
	}
	if cmd.Flags().Changed("retries") {
		g.Retries = f.retries
	}
	if f.workers > 0 {
		g.Workers = f.workers
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	// stdout carries results.
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, geoerrors.Validation(err.Error()).WithCause(err)
	}
	return &cfg, nil
}

func newLogger(cfg *config.Config, errOut io.Writer) *logger.Logger {
	var l *logger.Logger
	if cfg.Logging.Output == "stderr" || cfg.Logging.Output == "" {
		l = logger.NewWithWriter(&cfg.Logging, cfg.Name, errOut)
	} else {
		l = logger.New(&cfg.Logging, cfg.Name)
	}
	logger.SetGlobalLogger(l)
	return l
}

func (f *flags) queryOptions() provider.Options {
	opts := provider.Options{
		Key:     f.key,
		MaxRows: f.maxRows,
		URL:     f.url,
		Units:   f.units,
	}
	extra := map[string]string{}
	for k, v := range map[string]string{"city": f.city, "state": f.state, "zipcode": f.zipcode} {
		if v != "" {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		opts.Extra = extra
	}
	return opts
}

// runner geocodes a list of locations with bounded concurrency and prints
// the answers in input order.
type runner struct {
	client   *geocoder.Client
	provider string
	method   string
	opts     provider.Options
	output   string
	retries  int
	workers  int
	out      io.Writer
	bar      *progressbar.ProgressBar
	tel      *telemetry
	log      *logger.Logger

	rejected atomic.Int32
}

func (r *runner) run(ctx context.Context, locations []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]chan []byte, len(locations))
	for i := range slots {
		slots[i] = make(chan []byte, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.workers, 1))
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, loc := range locations {
			g.Go(func() error {
				slots[i] <- r.query(gctx, loc)
				if r.bar != nil {
					_ = r.bar.Add(1)
				}
				return nil
			})
		}
	}()

	var writeErr error
	for i := range slots {
		var line []byte
		select {
		case line = <-slots[i]:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		if _, err := fmt.Fprintf(r.out, "%s\n", line); err != nil {
			if errors.Is(err, syscall.EPIPE) {
				r.log.Debug("output closed, stopping")
			} else {
				writeErr = fmt.Errorf("write result: %w", err)
			}
			cancel()
			break
		}
	}

	<-launched
	_ = g.Wait()
	if r.bar != nil {
		_ = r.bar.Finish()
	}

	if writeErr != nil {
		return writeErr
	}
	if n := r.rejected.Load(); n > 0 {
		r.log.Warn("some locations were rejected", logger.Fields(logger.FieldCount, n))
		return errInputsFailed
	}
	return nil
}

// query geocodes one location and returns its output line.
func (r *runner) query(ctx context.Context, loc string) []byte {
	r.tel.begin(ctx)
	start := time.Now()

	res, err := r.get(ctx, loc)
	if err != nil {
		appErr := geoerrors.From(err)
		if geoerrors.IsLocal(appErr.Code) {
			r.rejected.Add(1)
		}
		r.tel.end(ctx, r.provider, appErr)
		r.log.Warn("location rejected", logger.MergeWithError(
			logger.QueryFields(r.provider, r.method, loc), err))
		return errorLine(loc, appErr)
	}
	r.tel.end(ctx, r.provider, res.Err)

	fields := logger.MergeWithDuration(logger.QueryFields(res.Provider, res.Method, loc), time.Since(start))
	fields[logger.FieldStatus] = string(res.Status)
	r.log.Debug("location done", fields)

	out, err := geocoder.Render(res, r.output)
	if err != nil {
		return errorLine(loc, geoerrors.From(err))
	}
	return out
}

// get runs one query, retrying results that failed for a transient reason.
// When retries run out the last failed result is returned.
func (r *runner) get(ctx context.Context, loc string) (*result.Result, error) {
	if r.retries == 0 {
		return r.client.Get(ctx, loc, r.provider, r.method, r.opts)
	}

	var last *result.Result
	rc := resilience.DefaultRetryConfig()
	rc.MaxAttempts = r.retries + 1
	rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
		r.log.Info("retrying location", logger.MergeWithError(logger.Fields(
			logger.FieldLocation, loc,
			logger.FieldAttempt, attempt,
			"backoff_ms", backoff.Milliseconds(),
		), err))
	}

	res, err := resilience.Retry(ctx, rc, func() (*result.Result, error) {
		res, err := r.client.Get(ctx, loc, r.provider, r.method, r.opts)
		if err != nil {
			return nil, err
		}
		last = res
		if res.Status == result.StatusError && res.Err != nil {
			return nil, res.Err
		}
		return res, nil
	})
	if err != nil && last != nil {
		return last, nil
	}
	return res, err
}

// errorResponse is the line printed for a location that produced no result.
type errorResponse struct {
	Location string              `json:"location"`
	Error    geoerrors.ErrorBody `json:"error"`
}

func errorLine(loc string, err *geoerrors.AppError) []byte {
	b, mErr := json.Marshal(errorResponse{Location: loc, Error: err.Body()})
	if mErr != nil {
		return []byte(fmt.Sprintf(`{"location":%q,"error":{"code":%q}}`, loc, err.Code))
	}
	return b
}

func newProgress(w io.Writer, n int) *progressbar.ProgressBar {
	if n <= 1 || !isTerminal(w) {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription("Geocoding"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
