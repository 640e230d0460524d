package driven

import (
	"context"

	"github.com/withtahmid/cv-agent/internal/domain/model"
)

// SheetCredentials identifies the target worksheet and how to
// authenticate to it.
type SheetCredentials struct {
	ConfigJSON    string // Service-account key JSON.
	SpreadsheetID string
	WorksheetName string
}

// SheetWriter defines the driven port for the spreadsheet collaborator.
type SheetWriter interface {
	// AppendRecord opens the named worksheet -- creating it with the
	// fixed header row if absent -- and appends exactly one data row in
	// header order. An append that reports anything other than one row
	// and at least one cell written is an error.
	AppendRecord(ctx context.Context, creds SheetCredentials, rec model.CVRecord) error
}
