package driven

import (
	"context"

	"github.com/withtahmid/cv-agent/internal/domain/model"
)

// UsageStore defines the driven port for the intake audit log.
type UsageStore interface {
	// Record appends one usage record. Records are immutable once written.
	Record(ctx context.Context, rec model.UsageRecord) error
}
