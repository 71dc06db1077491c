package command

import (
	"strings"

	"github.com/goliatone/go-formsync/core"
)

const TypeSyncPaidSubmission = "formsync.command.paid_submission.sync"

// SyncPaidSubmissionMessage carries one IFP_PAID delivery.
type SyncPaidSubmissionMessage struct {
	ReqUUID string
	Payload string
}

func NewSyncPaidSubmissionMessage(event core.WebhookEvent) SyncPaidSubmissionMessage {
	return SyncPaidSubmissionMessage{ReqUUID: event.ReqUUID, Payload: event.Payload}
}

func (SyncPaidSubmissionMessage) Type() string { return TypeSyncPaidSubmission }

func (m SyncPaidSubmissionMessage) Validate() error {
	if strings.TrimSpace(m.Payload) == "" {
		return commandValidationError("payload", "payload is required")
	}
	return nil
}
