package formsync

import "github.com/goliatone/go-formsync/core"

type Config = core.Config

type WebhookEvent = core.WebhookEvent
type InboundResult = core.InboundResult
type SyncResult = core.SyncResult

type Logger = core.Logger
type LoggerProvider = core.LoggerProvider

const (
	EventURLVerify     = core.EventURLVerify
	EventFormSubmitNew = core.EventFormSubmitNew
	EventPaid          = core.EventPaid
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}
