package provider

import (
	"context"
	"time"

	"github.com/kbukum/geokit/logger"
)

// WithLogging logs every call with its query fields, duration and outcome.
// Failures go out at warn; they end up in the result, not in front of the
// caller.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggedStage[I, O]{RequestResponse: inner, log: log}
	}
}

type loggedStage[I, O any] struct {
	RequestResponse[I, O]
	log *logger.Logger
}

func (l *loggedStage[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.RequestResponse.Execute(ctx, input)

	fields := logger.Fields(logger.FieldProvider, l.Name())
	if f, ok := any(input).(fielder); ok && f != nil {
		fields = f.LogFields()
	}
	fields[logger.FieldStatus] = outcomeOf(output, err)
	fields = logger.MergeWithDuration(fields, time.Since(start))

	log := l.log.WithContext(ctx)
	if err != nil {
		log.Warn("provider call failed", logger.MergeWithError(fields, err))
		return output, err
	}
	log.Debug("provider call done", fields)
	return output, nil
}
