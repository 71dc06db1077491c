package inbound

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// DetachedRunner starts fire-and-forget units of work. A unit outlives the
// request that started it, runs at most once and reports nothing back; its
// failures and panics are logged. There is no bound on concurrent units.
type DetachedRunner struct {
	Logger core.Logger
	NewID  func() string

	wg sync.WaitGroup
}

func NewDetachedRunner(logger core.Logger) *DetachedRunner {
	return &DetachedRunner{
		Logger: glog.Ensure(logger),
		NewID:  uuid.NewString,
	}
}

// Go starts fn on a context that keeps ctx values but not its cancellation
// and returns the unit id used in the logs.
func (r *DetachedRunner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) string {
	if ctx == nil {
		ctx = context.Background()
	}
	newID := r.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	unitID := newID()
	logger := glog.Ensure(r.Logger)
	detached := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		startedAt := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("inbound: detached unit panicked",
					"unit", name,
					"unit_id", unitID,
					"panic", fmt.Sprint(recovered),
				)
			}
		}()
		if err := fn(detached); err != nil {
			logger.Error("inbound: detached unit failed",
				"unit", name,
				"unit_id", unitID,
				"error", err,
				"text_code", core.TextCode(err),
				"duration_ms", time.Since(startedAt).Milliseconds(),
			)
			return
		}
		logger.Debug("inbound: detached unit finished",
			"unit", name,
			"unit_id", unitID,
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
	}()
	return unitID
}

// Wait blocks until every started unit returned or ctx is done. Units still
// running when ctx ends are abandoned.
func (r *DetachedRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	if ctx == nil {
		<-done
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
