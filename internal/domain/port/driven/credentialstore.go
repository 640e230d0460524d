package driven

import (
	"context"

	"github.com/withtahmid/cv-agent/internal/domain/model"
)

// CredentialStore defines the driven port for credential persistence.
// Implementations must uphold the active-set invariant: for each
// credential type, at most one credential is active at any committed
// point in time, and no transient state violating that is ever
// observable by a concurrent reader.
type CredentialStore interface {
	// Add inserts a new credential. New credentials are always inserted
	// inactive; activation happens only through SetActiveSet. A secret
	// value that already exists on any credential, regardless of type,
	// fails with fault.KindDuplicateSecret.
	Add(ctx context.Context, name, secret string, typ model.CredentialType) (model.Credential, error)

	// ListWithUsage returns every credential joined with its audit-log
	// usage counts (all-time and trailing 24 hours). Credentials with no
	// recorded usage report zero counts.
	ListWithUsage(ctx context.Context) ([]model.CredentialUsage, error)

	// SetActiveSet atomically replaces the entire active set: every
	// credential is deactivated, then exactly the selections with
	// Active = true are activated, in one transaction. Callers must
	// submit the complete desired state. An unknown id fails with
	// fault.KindCredentialNotFound; any transactional failure with
	// fault.KindPersistence. No partial application is observable.
	SetActiveSet(ctx context.Context, selections []model.ActiveSelection) error

	// GetActiveByType returns the single active credential of the given
	// type. Zero active credentials -- or more than one, should the
	// invariant have been violated by an out-of-band edit -- fail with
	// fault.KindCredentialNotFound.
	GetActiveByType(ctx context.Context, typ model.CredentialType) (model.Credential, error)
}
