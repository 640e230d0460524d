package sqlite

import (
	"context"

	"github.com/withtahmid/cv-agent/internal/domain/fault"
	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UsageStore = (*UsageRepo)(nil)

// UsageRepo is the SQLite implementation of the intake audit log.
type UsageRepo struct {
	db *DB
}

// NewUsageRepo creates a new UsageRepo.
func NewUsageRepo(db *DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// Record appends one usage record. created_at is assigned by the
// database; completed_at and error come from the record.
func (r *UsageRepo) Record(ctx context.Context, rec model.UsageRecord) error {
	const query = `INSERT INTO usage_records
		(ocr_secret, gemini_secret, sheet_id, sheet_name, file_count, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	var completedAt any
	if rec.CompletedAt != nil {
		completedAt = rec.CompletedAt.UTC().Format("2006-01-02 15:04:05")
	}
	var errMsg any
	if rec.ErrorMessage != nil {
		errMsg = *rec.ErrorMessage
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		rec.OCRSecret, rec.GeminiSecret, rec.SheetID, rec.SheetName, rec.FileCount, completedAt, errMsg,
	)
	if err != nil {
		return fault.Wrap(fault.KindPersistence, "failed to record usage", err)
	}
	return nil
}
