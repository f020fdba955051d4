package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for logging.
	Name string
	// Rate is the number of requests allowed per second.
	Rate float64
	// Burst is the maximum burst size.
	Burst int
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// OnWait is called when a caller has to wait for a token.
	OnWait func(name string, wait time.Duration)
}

// RateLimiter implements a token bucket rate limiter.
// Callers that find the bucket empty reserve a future token and wait for it,
// so requests are delayed but never dropped.
type RateLimiter struct {
	config RateLimiterConfig
	clock  clockwork.Clock

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 1.0
	}
	if config.Burst <= 0 {
		config.Burst = max(int(config.Rate), 1)
	}
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &RateLimiter{
		config:     config,
		clock:      clock,
		tokens:     float64(config.Burst),
		lastRefill: clock.Now(),
	}
}

// Allow reports whether a request may proceed now, consuming a token if so.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
// A cancelled wait hands its reserved token back.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wait := rl.reserve()
	if wait <= 0 {
		return nil
	}
	if rl.config.OnWait != nil {
		rl.config.OnWait(rl.config.Name, wait)
	}

	timer := rl.clock.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		rl.release()
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// refill adds tokens based on time elapsed. Caller holds mu.
func (rl *RateLimiter) refill() {
	now := rl.clock.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate

	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// reserve takes one token, possibly going negative, and returns how long the
// caller must wait before the token is really there.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}

	waitSeconds := -rl.tokens / rl.config.Rate
	return time.Duration(waitSeconds * float64(time.Second))
}

func (rl *RateLimiter) release() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens++
}

// Tokens returns the current number of available tokens.
// Negative values mean callers are queued.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// Rate returns the rate limit (requests per second).
func (rl *RateLimiter) Rate() float64 {
	return rl.config.Rate
}

// Burst returns the burst size.
func (rl *RateLimiter) Burst() int {
	return rl.config.Burst
}

// LimiterSet holds one RateLimiter per key, created on first use.
type LimiterSet struct {
	// OnWait is handed to every limiter the set creates. Set it before the
	// first Get.
	OnWait func(key string, wait time.Duration)

	clock clockwork.Clock

	mu       sync.Mutex
	limiters map[string]*RateLimiter
}

// NewLimiterSet creates an empty set. A nil clock means the real clock.
func NewLimiterSet(clock clockwork.Clock) *LimiterSet {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LimiterSet{clock: clock, limiters: make(map[string]*RateLimiter)}
}

// Get returns the limiter for key, creating it with rate and burst if absent.
// It returns nil when rate is not positive, meaning the key is unlimited.
func (s *LimiterSet) Get(key string, rate float64, burst int) *RateLimiter {
	if rate <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rl, ok := s.limiters[key]; ok {
		return rl
	}
	rl := NewRateLimiter(RateLimiterConfig{
		Name:   key,
		Rate:   rate,
		Burst:  burst,
		Clock:  s.clock,
		OnWait: s.OnWait,
	})
	s.limiters[key] = rl
	return rl
}

// Len returns the number of limiters created so far.
func (s *LimiterSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
