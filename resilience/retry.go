package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	geoerrors "github.com/kbukum/geokit/errors"
)

// RetryConfig is the retry policy for one location.
type RetryConfig struct {
	// MaxAttempts counts the first try.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// Jitter spreads each wait by up to this fraction either way.
	Jitter float64
	// RetryIf decides whether an error is worth another attempt.
	// Defaults to RetryIfTransient.
	RetryIf func(error) bool
	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, backoff time.Duration)
	Clock   clockwork.Clock
}

// DefaultRetryConfig is the policy behind the CLI's --retries flag.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2,
		Jitter:         0.1,
		RetryIf:        RetryIfTransient,
	}
}

// RetryIfTransient accepts provider errors that may clear up on their own:
// timeouts, throttling and unavailable services.
func RetryIfTransient(err error) bool {
	appErr, ok := geoerrors.AsAppError(err)
	return ok && (appErr.Retryable || geoerrors.IsRetryableCode(appErr.Code))
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2
	}
	if c.RetryIf == nil {
		c.RetryIf = RetryIfTransient
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c
}

// Retry calls fn until it succeeds, returns an error RetryIf rejects, or
// runs out of attempts. The error of the last attempt is returned.
//
// A Retry-After hint carried by the error stretches the wait, still capped
// by MaxBackoff.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg = cfg.withDefaults()
	var zero T

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if attempt >= cfg.MaxAttempts || !cfg.RetryIf(err) {
			return zero, err
		}

		wait := max(cfg.backoff(attempt), min(geoerrors.RetryAfter(err), cfg.MaxBackoff))
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, cfg.Clock, wait); err != nil {
			return zero, err
		}
	}
}

func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	t := clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.Chan():
		return nil
	}
}

// backoff is InitialBackoff * BackoffFactor^(attempt-1), jittered and
// capped at MaxBackoff.
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt-1))
	if c.Jitter > 0 {
		d += d * c.Jitter * (2*rand.Float64() - 1)
	}
	d = min(d, float64(c.MaxBackoff))
	if d < 0 {
		return c.InitialBackoff
	}
	return time.Duration(d)
}
