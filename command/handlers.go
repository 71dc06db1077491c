package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-formsync/core"
)

type SyncPaidSubmissionCommand struct {
	syncer core.PaidSubmissionSyncer
}

func NewSyncPaidSubmissionCommand(syncer core.PaidSubmissionSyncer) *SyncPaidSubmissionCommand {
	return &SyncPaidSubmissionCommand{syncer: syncer}
}

func (c *SyncPaidSubmissionCommand) Execute(ctx context.Context, msg SyncPaidSubmissionMessage) error {
	if c == nil || c.syncer == nil {
		return commandDependencyError("command: paid submission syncer is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.syncer.Sync(ctx, msg.Payload)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
