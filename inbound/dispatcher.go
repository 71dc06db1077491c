package inbound

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Dispatcher verifies a delivery, then hands it to the handler registered
// for its event name. The returned result is always the response to send;
// the error, when set, carries the detail for the logs.
type Dispatcher struct {
	Verifier core.EventVerifier
	Logger   core.Logger

	mu       sync.RWMutex
	handlers map[string]core.EventHandler
}

func NewDispatcher(verifier core.EventVerifier, logger core.Logger) *Dispatcher {
	return &Dispatcher{
		Verifier: verifier,
		Logger:   glog.Ensure(logger),
		handlers: map[string]core.EventHandler{},
	}
}

func (d *Dispatcher) Register(handler core.EventHandler) error {
	if d == nil {
		return inboundInternal("inbound: dispatcher is nil", nil)
	}
	if handler == nil {
		return inboundBadInput("inbound: handler is nil", nil)
	}
	event := strings.TrimSpace(handler.Event())
	if event == "" {
		return inboundBadInput("inbound: handler event is required", nil)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = map[string]core.EventHandler{}
	}
	if _, exists := d.handlers[event]; exists {
		return duplicateHandler(event)
	}
	d.handlers[event] = handler
	return nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, event core.WebhookEvent) (result core.InboundResult, err error) {
	if d == nil {
		return internalFailure(), inboundInternal("inbound: dispatcher is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := glog.Ensure(d.Logger)
	metadata := map[string]any{"event": event.Event, "req_uuid": event.ReqUUID}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = internalFailure()
			err = inboundInternal(fmt.Sprintf("inbound: handler panic: %v", recovered), metadata)
			logger.Error("inbound: handler panicked", "event", event.Event, "req_uuid", event.ReqUUID, "panic", recovered)
		}
	}()

	if d.Verifier == nil {
		logger.Error("inbound: no signature verifier configured", "event", event.Event)
		return internalFailure(), inboundInternal("inbound: signature verifier is required", metadata)
	}
	if verifyErr := d.Verifier.Verify(ctx, event); verifyErr != nil {
		logger.Warn("inbound: signature rejected", "event", event.Event, "req_uuid", event.ReqUUID)
		return rejected(http.StatusBadRequest, core.ResponseInvalidSignature), signatureRejected(verifyErr, metadata)
	}

	handler := d.handlerFor(event.Event)
	if handler == nil {
		logger.Warn("inbound: unsupported event", "event", event.Event, "req_uuid", event.ReqUUID)
		return rejected(http.StatusBadRequest, core.ResponseUnsupportedEvent), unsupportedEvent(event.Event, metadata)
	}

	result, err = handler.Handle(ctx, event)
	if err != nil {
		logger.Error("inbound: handler failed", "event", event.Event, "req_uuid", event.ReqUUID, "error", err)
		return internalFailure(), handlerFailed(err, metadata)
	}
	if result.StatusCode == 0 {
		result.StatusCode = http.StatusOK
	}
	result.Metadata = ensureMetadata(result.Metadata)
	result.Metadata["event"] = event.Event
	result.Metadata["req_uuid"] = event.ReqUUID
	logger.Info("inbound: event handled", "event", event.Event, "req_uuid", event.ReqUUID, "status", result.StatusCode)
	return result, nil
}

func (d *Dispatcher) handlerFor(event string) core.EventHandler {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[event]
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
