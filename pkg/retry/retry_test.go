package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(maxAttempts int) *Retrier {
	return New(Config{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	})
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := fastRetrier(5).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	failure := errors.New("still down")
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return failure
	})

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	attempts := 0
	cause := errors.New("bad credentials")
	err := fastRetrier(5).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(cause)
	})

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, attempts)
}

func TestDoHonorsRetryIf(t *testing.T) {
	r := New(Config{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		RetryIf:      func(err error) bool { return false },
	})

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("rejected")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoReturnsLastErrorOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	failure := errors.New("not yet")
	err := fastRetrier(10).Do(ctx, func(ctx context.Context) error {
		cancel()
		return failure
	})

	assert.ErrorIs(t, err, failure)
}

func TestDoCancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastRetrier(3).Do(ctx, func(ctx context.Context) error {
		t.Fatal("operation must not run")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPermanentNilPassthrough(t *testing.T) {
	assert.NoError(t, Permanent(nil))
	assert.False(t, IsPermanent(errors.New("plain")))
	assert.True(t, IsPermanent(Permanent(errors.New("wrapped"))))
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	r := New(Config{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     40 * time.Millisecond,
		Multiplier:   2.0,
	})

	assert.Equal(t, 10*time.Millisecond, r.backoff(1))
	assert.Equal(t, 20*time.Millisecond, r.backoff(2))
	assert.Equal(t, 40*time.Millisecond, r.backoff(3))
	assert.Equal(t, 40*time.Millisecond, r.backoff(4))
}
