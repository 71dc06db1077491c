package sync

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-formsync/core"
	"github.com/goliatone/go-formsync/form"
	glog "github.com/goliatone/go-logger/glog"
)

// Directory is the slice of the Notion client the sync drives.
type Directory interface {
	FindDatabaseByTitle(ctx context.Context, rootPageID, title string) (string, bool, error)
	CreateDatabase(ctx context.Context, rootPageID, title string, columns []string) (string, error)
	CreateRow(ctx context.Context, databaseID, title string, properties map[string]string) (string, error)
}

// Service mirrors one paid submission into a row of the database named after
// its form, creating the database on first sight. The lookup and the create
// are not atomic: two first deliveries racing for the same form can both
// create a database.
type Service struct {
	Directory  Directory
	RootPageID string
	Logger     core.Logger
}

func NewService(directory Directory, rootPageID string, logger core.Logger) *Service {
	return &Service{
		Directory:  directory,
		RootPageID: strings.TrimSpace(rootPageID),
		Logger:     glog.Ensure(logger),
	}
}

func (s *Service) Sync(ctx context.Context, payload string) (core.SyncResult, error) {
	if s == nil || s.Directory == nil {
		return core.SyncResult{}, core.NewError(
			"sync: directory is required",
			goerrors.CategoryInternal,
			core.ErrorInternal,
			nil,
		)
	}
	if s.RootPageID == "" {
		return core.SyncResult{}, core.NewError(
			"sync: root page id is required",
			goerrors.CategoryInternal,
			core.ErrorInternal,
			nil,
		)
	}
	logger := glog.Ensure(s.Logger)

	submission, err := form.Parse(payload)
	if err != nil {
		return core.SyncResult{}, err
	}
	properties, err := submission.PropertyMapping()
	if err != nil {
		return core.SyncResult{}, err
	}
	result := core.SyncResult{
		DatabaseTitle: submission.FormTitle(),
		PageTitle:     submission.PageTitle(),
	}

	databaseID, found, err := s.Directory.FindDatabaseByTitle(ctx, s.RootPageID, result.DatabaseTitle)
	if err != nil {
		return core.SyncResult{}, err
	}
	if !found {
		databaseID, err = s.Directory.CreateDatabase(ctx, s.RootPageID, result.DatabaseTitle, submission.QuestionTexts())
		if err != nil {
			return core.SyncResult{}, err
		}
		result.DatabaseCreated = true
	}
	result.DatabaseID = databaseID

	rowID, err := s.Directory.CreateRow(ctx, databaseID, result.PageTitle, properties)
	if err != nil {
		return core.SyncResult{}, err
	}
	result.RowID = rowID

	logger.Info("sync: paid submission mirrored",
		"database_id", result.DatabaseID,
		"database_created", result.DatabaseCreated,
		"row_id", result.RowID,
		"submit_id", submission.Common.SYS.SubmitID.Int64(),
	)
	return result, nil
}

var _ core.PaidSubmissionSyncer = (*Service)(nil)
