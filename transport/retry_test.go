package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func transientError() error {
	return transportWrapError(
		errors.New("dial tcp: connection refused"),
		goerrors.CategoryExternal,
		"transport: execute http request",
		core.ErrorTransportFailure,
		nil,
	)
}

func TestExponentialRetryPolicy(t *testing.T) {
	policy := ExponentialRetryPolicy{Initial: time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for index, expected := range want {
		if got := policy.NextDelay(index + 1); got != expected {
			t.Fatalf("attempt %d: expected %s, got %s", index+1, expected, got)
		}
	}
	capped := ExponentialRetryPolicy{Initial: time.Second, Max: 3 * time.Second}
	if got := capped.NextDelay(4); got != 3*time.Second {
		t.Fatalf("expected delay to be capped, got %s", got)
	}
}

func TestRetrySucceedsAfterTwoTransientFailures(t *testing.T) {
	sleeper := &recordingSleeper{}
	retrier := NewRetrier(5)
	retrier.Sleep = sleeper.Sleep

	calls := 0
	value, err := Retry(context.Background(), retrier, func(context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", transientError()
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if value != "ok" {
		t.Fatalf("expected value ok, got %q", value)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(sleeper.delays) != 2 || sleeper.delays[0] != time.Second || sleeper.delays[1] != 2*time.Second {
		t.Fatalf("expected sleeps [1s 2s], got %v", sleeper.delays)
	}
}

func TestRetryPropagatesLastTransientError(t *testing.T) {
	sleeper := &recordingSleeper{}
	retrier := NewRetrier(5)
	retrier.Sleep = sleeper.Sleep

	calls := 0
	var last error
	err := retrier.Do(context.Background(), func(context.Context) error {
		calls++
		last = transientError()
		return last
	})
	if calls != 5 {
		t.Fatalf("expected 5 calls, got %d", calls)
	}
	if err != last {
		t.Fatalf("expected last transport error unchanged, got %v", err)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(sleeper.delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), sleeper.delays)
	}
	for index := range want {
		if sleeper.delays[index] != want[index] {
			t.Fatalf("expected sleeps %v, got %v", want, sleeper.delays)
		}
	}
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	sleeper := &recordingSleeper{}
	retrier := NewRetrier(5)
	retrier.Sleep = sleeper.Sleep

	permanent := core.NewError("directory: status 400", goerrors.CategoryExternal, core.ErrorDirectoryAPI, nil)
	calls := 0
	err := retrier.Do(context.Background(), func(context.Context) error {
		calls++
		return permanent
	})
	if calls != 1 || len(sleeper.delays) != 0 {
		t.Fatalf("expected a single call without sleeping, got %d calls %v", calls, sleeper.delays)
	}
	if err != permanent {
		t.Fatalf("expected permanent error unchanged, got %v", err)
	}
}

func TestRetryStopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	retrier := NewRetrier(5)
	calls := 0
	err := retrier.Do(ctx, func(context.Context) error {
		calls++
		return transientError()
	})
	if calls != 1 {
		t.Fatalf("expected retries to stop after cancellation, got %d calls", calls)
	}
	if !core.IsTextCode(err, core.ErrorOperationCanceled) {
		t.Fatalf("expected %s, got %v", core.ErrorOperationCanceled, err)
	}
}
