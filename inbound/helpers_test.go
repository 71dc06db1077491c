package inbound

import (
	"context"
	"sync"

	"github.com/goliatone/go-formsync/command"
	"github.com/goliatone/go-formsync/core"
	"github.com/goliatone/go-formsync/webhooks"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	testAccessKey = "access"
	testSecretKey = "secret"
)

func signed(event, payload string) core.WebhookEvent {
	evt := core.WebhookEvent{
		Event:     event,
		ReqUUID:   "req-1",
		Repeat:    "0",
		Timestamp: "1732604084",
		Payload:   payload,
	}
	evt.Sign = webhooks.Sign(evt.Event, evt.ReqUUID, evt.Repeat, evt.Timestamp, evt.Payload, testAccessKey, testSecretKey)
	return evt
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: append([]any(nil), args...)})
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *captureLogger) WithContext(context.Context) glog.Logger { return l }

func (l *captureLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.level == level && entry.msg == msg {
			return true
		}
	}
	return false
}

type stubCommand struct {
	mu      sync.Mutex
	release chan struct{}
	calls   []command.SyncPaidSubmissionMessage
	ctxErrs []error
	result  core.SyncResult
	err     error
	panic   bool
}

func (c *stubCommand) Execute(ctx context.Context, msg command.SyncPaidSubmissionMessage) error {
	if c.release != nil {
		<-c.release
	}
	c.mu.Lock()
	c.calls = append(c.calls, msg)
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	c.mu.Unlock()
	if c.panic {
		panic("sync exploded")
	}
	if c.err != nil {
		return c.err
	}
	storeSyncResult(ctx, c.result)
	return nil
}

var _ glog.Logger = (*captureLogger)(nil)
