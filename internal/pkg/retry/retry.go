// Package retry runs an operation again with exponentially growing pauses until it
// succeeds or the retry budget is spent.
package retry

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Config struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// RetryDelay is the pause before the first retry.
	RetryDelay time.Duration
	// BackoffMultiplier scales the pause for each following retry. Values <= 0 mean 2.
	BackoffMultiplier float64
}

// Retrier keeps the progress of the current Do call so callers can report it.
type Retrier struct {
	cfg        Config
	retryCount atomic.Int32
	retrying   atomic.Bool
}

func New(cfg Config) *Retrier {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = 2
	}
	return &Retrier{cfg: cfg}
}

// RetryCount is the number of retries performed by the running (or last) Do call.
func (r *Retrier) RetryCount() int {
	return int(r.retryCount.Load())
}

// IsRetrying reports whether Do is waiting for or running a retry.
func (r *Retrier) IsRetrying() bool {
	return r.retrying.Load()
}

// Permanent marks err as not worth retrying. Do returns the wrapped error unchanged.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (r *Retrier) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.cfg.RetryDelay
	exp.Multiplier = r.cfg.BackoffMultiplier
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Duration(math.MaxInt64)
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.cfg.MaxRetries)), ctx)
}

// Do calls op until it returns nil, at most MaxRetries+1 times. The last failure is returned.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	r.retryCount.Store(0)
	r.retrying.Store(false)
	defer r.retrying.Store(false)

	return backoff.RetryNotify(
		func() error {
			return op(ctx)
		},
		r.policy(ctx),
		func(error, time.Duration) {
			r.retryCount.Add(1)
			r.retrying.Store(true)
		},
	)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	var res T
	err := r.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		res = v
		return nil
	})
	return res, err
}
