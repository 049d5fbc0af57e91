package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestDoExhaustsRetries(t *testing.T) {
	r := New(Config{MaxRetries: 3, RetryDelay: time.Millisecond, BackoffMultiplier: 2})

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 3, r.RetryCount())
	assert.False(t, r.IsRetrying())
}

func TestDoStopsOnSuccess(t *testing.T) {
	r := New(Config{MaxRetries: 5, RetryDelay: time.Millisecond})

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			assert.Equal(t, attempts > 1, r.IsRetrying())
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, r.RetryCount())
}

func TestDoWaitsExponentially(t *testing.T) {
	r := New(Config{MaxRetries: 3, RetryDelay: 10 * time.Millisecond, BackoffMultiplier: 2})

	var stamps []time.Time
	_ = r.Do(context.Background(), func(context.Context) error {
		stamps = append(stamps, time.Now())
		return errBoom
	})

	require.Len(t, stamps, 4)
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	for i, w := range want {
		assert.GreaterOrEqual(t, stamps[i+1].Sub(stamps[i]), w, "pause before retry %d", i+1)
	}
}

func TestDoZeroRetries(t *testing.T) {
	r := New(Config{MaxRetries: 0})

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, attempts)
}

func TestDoPermanent(t *testing.T) {
	r := New(Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return Permanent(errBoom)
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, attempts)
}

func TestDoCancelled(t *testing.T) {
	r := New(Config{MaxRetries: 3, RetryDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	err := r.Do(ctx, func(context.Context) error {
		cancel()
		return errBoom
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestDoValue(t *testing.T) {
	r := New(Config{MaxRetries: 2, RetryDelay: time.Millisecond})

	calls := 0
	v, err := DoValue(context.Background(), r, func(context.Context) (float64, error) {
		calls++
		if calls == 1 {
			return 0, errBoom
		}
		return 42.5, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42.5, v)
}
