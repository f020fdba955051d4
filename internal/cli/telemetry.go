package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/geokit/config"
	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/logger"
	"github.com/kbukum/geokit/observability"
	"github.com/kbukum/geokit/version"
)

// telemetry owns the recorders of one run and flushes them on close.
type telemetry struct {
	recorder observability.Recorder
	prom     *observability.PromRecorder
	otel     *observability.Metrics
	textfile string
	shutdown []func(context.Context) error
	log      *logger.Logger
}

func setupTelemetry(ctx context.Context, f *flags, cfg *config.Config, log *logger.Logger) (*telemetry, error) {
	t := &telemetry{textfile: f.metricsFile, log: log}
	var recorders observability.MultiRecorder

	if f.metricsFile != "" {
		t.prom = observability.NewPromRecorder(nil)
		recorders = append(recorders, t.prom)
	}

	if f.otlpEndpoint != "" {
		ec := observability.DefaultExportConfig(cfg.Name)
		ec.ServiceVersion = version.GetShortVersion()
		ec.Environment = cfg.Environment
		ec.Endpoint = f.otlpEndpoint
		exp, err := observability.Setup(ctx, &ec)
		if err != nil {
			return nil, fmt.Errorf("otlp export: %w", err)
		}
		t.shutdown = append(t.shutdown, exp.Shutdown)

		metrics, err := observability.NewMetrics(observability.Meter("geocode"))
		if err != nil {
			_ = t.close(ctx)
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		t.otel = metrics
		recorders = append(recorders, metrics)
	}

	if len(recorders) == 0 {
		t.recorder = observability.NopRecorder{}
	} else {
		t.recorder = recorders
	}
	return t, nil
}

// begin marks a location as in flight.
func (t *telemetry) begin(ctx context.Context) {
	if t.otel != nil {
		t.otel.RecordStart(ctx)
	}
}

// end marks a location as done. A rejection or failed result is counted by
// error code.
func (t *telemetry) end(ctx context.Context, providerName string, err *geoerrors.AppError) {
	if t.otel == nil {
		return
	}
	t.otel.RecordEnd(ctx)
	if err != nil {
		t.otel.RecordError(ctx, string(err.Code), providerName)
	}
}

// close writes the metrics textfile and shuts down the OTLP exporters.
func (t *telemetry) close(ctx context.Context) error {
	var errs []error
	if t.prom != nil && t.textfile != "" {
		if err := t.prom.WriteTextfile(t.textfile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics file: %w", err))
		} else {
			t.log.Debug("metrics written", logger.Fields("path", t.textfile))
		}
	}
	for i := len(t.shutdown) - 1; i >= 0; i-- {
		if err := t.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdown = nil
	return errors.Join(errs...)
}
