// Package retry implements bounded retries with exponential backoff and
// jitter. Every error is considered transient unless wrapped with Permanent,
// which suits its main use: waiting out Postgres and Redis during boot.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the retrier gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries a PermanentError anywhere in
// its chain.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Config controls the retry schedule. Zero values are replaced with the
// defaults noted on each field.
type Config struct {
	// MaxAttempts counts the first try as attempt one. Default 3.
	MaxAttempts int
	// InitialDelay precedes the first retry. Default 100ms.
	InitialDelay time.Duration
	// MaxDelay caps the backoff. Default 30s.
	MaxDelay time.Duration
	// Multiplier grows the delay after every failed attempt. Default 2.
	Multiplier float64
	// Jitter in [0,1] randomizes each delay by up to that fraction.
	Jitter float64
	// RetryIf, when set, decides per error whether to keep trying.
	// Permanent errors short-circuit regardless.
	RetryIf func(error) bool
	// OnRetry runs before each sleep, for logging.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func (c *Config) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2.0
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		c.Jitter = 0
	}
}

// Retrier executes operations according to its Config.
type Retrier struct {
	cfg Config
}

// New builds a Retrier, filling unset Config fields with defaults.
func New(cfg Config) *Retrier {
	cfg.applyDefaults()
	return &Retrier{cfg: cfg}
}

// StartupRetrier waits up to roughly half a minute for infrastructure to
// accept connections: ten attempts backing off from 500ms to 5s.
func StartupRetrier() *Retrier {
	return New(Config{
		MaxAttempts:  10,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
	})
}

// Do runs operation until it succeeds, the attempts are exhausted, the
// error is permanent, or ctx is done. The returned error is the last one
// the operation produced, unwrapped from its Permanent marker if any.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var p *PermanentError
		if errors.As(err, &p) {
			return p.Err
		}
		if r.cfg.RetryIf != nil && !r.cfg.RetryIf(err) {
			return err
		}
		if attempt >= r.cfg.MaxAttempts {
			return err
		}

		delay := r.backoff(attempt)
		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}
	}
}

// backoff computes the sleep before retry number attempt+1.
func (r *Retrier) backoff(attempt int) time.Duration {
	d := float64(r.cfg.InitialDelay) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	if max := float64(r.cfg.MaxDelay); d > max {
		d = max
	}
	if r.cfg.Jitter > 0 {
		d += d * r.cfg.Jitter * (rand.Float64()*2 - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
