package inbound

import (
	"context"
	"encoding/json"
	"net/http"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-formsync/command"
	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

// URLVerifyHandler proves endpoint ownership by echoing the payload.
type URLVerifyHandler struct{}

func (URLVerifyHandler) Event() string { return core.EventURLVerify }

func (URLVerifyHandler) Handle(_ context.Context, event core.WebhookEvent) (core.InboundResult, error) {
	return core.InboundResult{StatusCode: http.StatusOK, Body: event.Payload}, nil
}

// FormSubmitHandler acknowledges new submissions once the payload is JSON.
type FormSubmitHandler struct {
	Logger core.Logger
}

func (FormSubmitHandler) Event() string { return core.EventFormSubmitNew }

func (h FormSubmitHandler) Handle(_ context.Context, event core.WebhookEvent) (core.InboundResult, error) {
	glog.Ensure(h.Logger).Debug("inbound: form submission received", "req_uuid", event.ReqUUID, "payload", event.Payload)
	if !json.Valid([]byte(event.Payload)) {
		return core.InboundResult{}, malformedPayload(event.ReqUUID)
	}
	return core.InboundResult{StatusCode: http.StatusOK, Body: core.ResponseOK}, nil
}

// PaidSubmissionHandler queues the sync of a paid submission on the runner
// and acknowledges without waiting for it.
type PaidSubmissionHandler struct {
	Command gocmd.Commander[command.SyncPaidSubmissionMessage]
	Runner  *DetachedRunner
	Logger  core.Logger
}

func NewPaidSubmissionHandler(
	cmd gocmd.Commander[command.SyncPaidSubmissionMessage],
	runner *DetachedRunner,
	logger core.Logger,
) *PaidSubmissionHandler {
	return &PaidSubmissionHandler{Command: cmd, Runner: runner, Logger: glog.Ensure(logger)}
}

func (*PaidSubmissionHandler) Event() string { return core.EventPaid }

func (h *PaidSubmissionHandler) Handle(ctx context.Context, event core.WebhookEvent) (core.InboundResult, error) {
	if h == nil || h.Command == nil || h.Runner == nil {
		return core.InboundResult{}, inboundInternal("inbound: paid submission handler is not configured", nil)
	}
	msg := command.NewSyncPaidSubmissionMessage(event)
	logger := glog.Ensure(h.Logger)

	unitID := h.Runner.Go(ctx, command.TypeSyncPaidSubmission, func(ctx context.Context) error {
		collector := gocmd.NewResult[core.SyncResult]()
		ctx = gocmd.ContextWithResult(ctx, collector)
		if err := h.Command.Execute(ctx, msg); err != nil {
			return err
		}
		if out, ok := collector.Load(); ok {
			logger.Info("inbound: paid submission synced",
				"req_uuid", msg.ReqUUID,
				"database_id", out.DatabaseID,
				"database_created", out.DatabaseCreated,
				"row_id", out.RowID,
			)
		}
		return nil
	})
	return core.InboundResult{
		StatusCode: http.StatusOK,
		Body:       core.ResponseOK,
		Metadata:   map[string]any{"unit_id": unitID},
	}, nil
}

var (
	_ core.EventHandler = URLVerifyHandler{}
	_ core.EventHandler = FormSubmitHandler{}
	_ core.EventHandler = (*PaidSubmissionHandler)(nil)
)
