package model

import "time"

// UsageRecord is one audit-log row capturing which credentials were used
// for one completed intake run. The four secret fields reference
// Credential.Secret values by value, not by id, so rotating a credential
// does not rewrite history. Rows are immutable after creation and are
// written only for fully successful runs.
type UsageRecord struct {
	ID           int64
	OCRSecret    string
	GeminiSecret string
	SheetID      string
	SheetName    string
	FileCount    int
	CreatedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage *string
}
