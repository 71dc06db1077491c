package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

const (
	EventURLVerify     = "URL_VERIFY"
	EventFormSubmitNew = "FORM_SUBMIT_NEW"
	EventPaid          = "IFP_PAID"
)

// WebhookEvent is one signed delivery from the form platform. Absent form
// fields are carried as empty strings.
type WebhookEvent struct {
	Event     string
	ReqUUID   string
	Repeat    string
	Timestamp string
	Payload   string
	Sign      string
}

type InboundResult struct {
	StatusCode int
	Body       string
	Metadata   map[string]any
}

type EventHandler interface {
	Event() string
	Handle(ctx context.Context, event WebhookEvent) (InboundResult, error)
}

type EventVerifier interface {
	Verify(ctx context.Context, event WebhookEvent) error
}

type SyncResult struct {
	DatabaseID      string
	DatabaseCreated bool
	RowID           string
	DatabaseTitle   string
	PageTitle       string
}

type PaidSubmissionSyncer interface {
	Sync(ctx context.Context, payload string) (SyncResult, error)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
