package transport

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

const DefaultMaxAttempts = 5

type RetryPolicy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialRetryPolicy doubles Initial for every attempt after the first,
// capped at Max. Attempt 1 waits Initial.
type ExponentialRetryPolicy struct {
	Initial time.Duration
	Max     time.Duration
}

func (p ExponentialRetryPolicy) NextDelay(attempt int) time.Duration {
	initial := p.Initial
	if initial <= 0 {
		initial = time.Second
	}
	maximum := p.Max
	if maximum <= 0 {
		maximum = 30 * time.Second
	}
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maximum {
			return maximum
		}
	}
	if delay > maximum {
		return maximum
	}
	return delay
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retrier reruns an operation while it fails with a retryable error, up to
// MaxAttempts calls in total. The last error is returned unchanged.
type Retrier struct {
	MaxAttempts int
	Policy      RetryPolicy
	Sleep       Sleeper
	Retryable   func(error) bool
	Logger      core.Logger
}

func NewRetrier(maxAttempts int) Retrier {
	return Retrier{
		MaxAttempts: maxAttempts,
		Policy:      ExponentialRetryPolicy{Initial: time.Second},
		Sleep:       SleepContext,
		Retryable:   IsTransient,
	}
}

func (r Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Retry(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func Retry[T any](ctx context.Context, r Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	policy := r.Policy
	if policy == nil {
		policy = ExponentialRetryPolicy{Initial: time.Second}
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	retryable := r.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	logger := glog.Ensure(r.Logger)

	var zero T
	for attempt := 1; ; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		if attempt >= attempts || !retryable(err) {
			return zero, err
		}
		delay := policy.NextDelay(attempt)
		logger.Warn("transport: retrying after transient failure",
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", delay.String(),
			"error", err,
		)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, core.WrapError(
				sleepErr,
				goerrors.CategoryOperation,
				"transport: retry interrupted",
				core.ErrorOperationCanceled,
				map[string]any{"attempt": attempt, "last_error": err.Error()},
			)
		}
	}
}
