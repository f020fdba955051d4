package observability

import (
	"context"
	"time"
)

// Dispatch outcomes, used as the outcome label.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)

// Recorder receives one observation per completed dispatch.
type Recorder interface {
	RecordGeocode(ctx context.Context, provider, method, outcome string, d time.Duration)
}

// NopRecorder discards every observation.
type NopRecorder struct{}

// RecordGeocode implements Recorder.
func (NopRecorder) RecordGeocode(context.Context, string, string, string, time.Duration) {}

// MultiRecorder fans an observation out to several recorders.
// Nil entries are skipped.
type MultiRecorder []Recorder

// RecordGeocode implements Recorder.
func (m MultiRecorder) RecordGeocode(ctx context.Context, provider, method, outcome string, d time.Duration) {
	for _, r := range m {
		if r != nil {
			r.RecordGeocode(ctx, provider, method, outcome, d)
		}
	}
}

var (
	_ Recorder = NopRecorder{}
	_ Recorder = MultiRecorder(nil)
	_ Recorder = (*Metrics)(nil)
	_ Recorder = (*PromRecorder)(nil)
)
