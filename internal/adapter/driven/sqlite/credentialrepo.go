package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/withtahmid/cv-agent/internal/domain/fault"
	"github.com/withtahmid/cv-agent/internal/domain/model"
	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore
// port. Mutations run on the single-connection writer pool inside
// explicit transactions, so the active-set invariant holds at every
// committed point; a partial unique index on (type) WHERE is_active = 1
// backs the same invariant at the storage layer.
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Add inserts a new credential as inactive. Activation happens only
// through SetActiveSet.
func (r *CredentialRepo) Add(ctx context.Context, name, secret string, typ model.CredentialType) (model.Credential, error) {
	if !typ.Valid() {
		return model.Credential{}, fault.New(fault.KindPersistence, fmt.Sprintf("unknown credential type %q", typ))
	}

	const query = `INSERT INTO credentials (name, secret, type, is_active) VALUES (?, ?, ?, 0)`
	res, err := r.db.Writer.ExecContext(ctx, query, name, secret, string(typ))
	if err != nil {
		if isDuplicateSecret(err) {
			return model.Credential{}, fault.Wrap(fault.KindDuplicateSecret, "a credential with this secret already exists", err)
		}
		return model.Credential{}, fault.Wrap(fault.KindPersistence, "failed to add credential", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Credential{}, fault.Wrap(fault.KindPersistence, "failed to add credential", err)
	}

	return r.getByID(ctx, id)
}

// SetActiveSet atomically replaces the whole active set in one writer
// transaction: deactivate everything, then activate the selected ids.
func (r *CredentialRepo) SetActiveSet(ctx context.Context, selections []model.ActiveSelection) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fault.Wrap(fault.KindPersistence, "failed to update active credentials", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE credentials SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE is_active = 1`,
	); err != nil {
		return fault.Wrap(fault.KindPersistence, "failed to update active credentials", err)
	}

	for _, sel := range selections {
		if !sel.Active {
			continue
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE credentials SET is_active = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			sel.ID,
		)
		if err != nil {
			return fault.Wrap(fault.KindPersistence, "failed to update active credentials", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fault.Wrap(fault.KindPersistence, "failed to update active credentials", err)
		}
		if affected == 0 {
			return fault.New(fault.KindCredentialNotFound, fmt.Sprintf("credential %d not found", sel.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return fault.Wrap(fault.KindPersistence, "failed to update active credentials", err)
	}
	return nil
}

// GetActiveByType returns the single active credential of the given
// type. The invariant makes more than one impossible through this store,
// but the query defends against out-of-band edits anyway.
func (r *CredentialRepo) GetActiveByType(ctx context.Context, typ model.CredentialType) (model.Credential, error) {
	const query = `SELECT id, name, secret, type, is_active, created_at, updated_at
		FROM credentials WHERE type = ? AND is_active = 1`

	rows, err := r.db.Reader.QueryContext(ctx, query, string(typ))
	if err != nil {
		return model.Credential{}, fault.Wrap(fault.KindPersistence, "failed to load active credential", err)
	}
	defer rows.Close()

	var active []model.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return model.Credential{}, fault.Wrap(fault.KindPersistence, "failed to load active credential", err)
		}
		active = append(active, cred)
	}
	if err := rows.Err(); err != nil {
		return model.Credential{}, fault.Wrap(fault.KindPersistence, "failed to load active credential", err)
	}

	switch len(active) {
	case 1:
		return active[0], nil
	case 0:
		return model.Credential{}, fault.New(fault.KindCredentialNotFound, fmt.Sprintf("no active %s credential", typ))
	default:
		return model.Credential{}, fault.New(fault.KindCredentialNotFound, fmt.Sprintf("multiple active %s credentials", typ))
	}
}

// ListWithUsage returns all credentials joined with usage counts. The
// join is an outer join on the secret value matching any of the four
// usage-record reference columns, so unused credentials report zero.
func (r *CredentialRepo) ListWithUsage(ctx context.Context) ([]model.CredentialUsage, error) {
	const query = `SELECT c.id, c.name, c.secret, c.type, c.is_active, c.created_at, c.updated_at,
			COUNT(u.id) AS total_usage,
			COALESCE(SUM(CASE WHEN u.created_at >= datetime('now', '-1 day') THEN 1 ELSE 0 END), 0) AS last_24h_usage
		FROM credentials c
		LEFT JOIN usage_records u
			ON u.ocr_secret = c.secret
			OR u.gemini_secret = c.secret
			OR u.sheet_id = c.secret
			OR u.sheet_name = c.secret
		GROUP BY c.id
		ORDER BY c.type, c.id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fault.Wrap(fault.KindPersistence, "failed to list credentials", err)
	}
	defer rows.Close()

	usages := []model.CredentialUsage{}
	for rows.Next() {
		var u model.CredentialUsage
		var typ string
		var createdAt, updatedAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Secret, &typ, &u.IsActive, &createdAt, &updatedAt, &u.TotalUsage, &u.Last24hUsage); err != nil {
			return nil, fault.Wrap(fault.KindPersistence, "failed to list credentials", err)
		}
		u.Type = model.CredentialType(typ)
		if u.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fault.Wrap(fault.KindPersistence, "failed to list credentials", err)
		}
		if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fault.Wrap(fault.KindPersistence, "failed to list credentials", err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.KindPersistence, "failed to list credentials", err)
	}

	return usages, nil
}

func (r *CredentialRepo) getByID(ctx context.Context, id int64) (model.Credential, error) {
	const query = `SELECT id, name, secret, type, is_active, created_at, updated_at
		FROM credentials WHERE id = ?`

	// Read on the writer connection so the row just inserted is visible
	// regardless of WAL checkpointing.
	row := r.db.Writer.QueryRowContext(ctx, query, id)
	cred, err := scanCredential(row)
	if err != nil {
		return model.Credential{}, fault.Wrap(fault.KindPersistence, "failed to load credential", err)
	}
	return cred, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (model.Credential, error) {
	var cred model.Credential
	var typ string
	var createdAt, updatedAt string
	if err := row.Scan(&cred.ID, &cred.Name, &cred.Secret, &typ, &cred.IsActive, &createdAt, &updatedAt); err != nil {
		return model.Credential{}, err
	}
	cred.Type = model.CredentialType(typ)

	var err error
	if cred.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Credential{}, err
	}
	if cred.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Credential{}, err
	}
	return cred, nil
}

// isDuplicateSecret matches the UNIQUE violation on credentials.secret.
func isDuplicateSecret(err error) bool {
	return err != nil && strings.Contains(err.Error(), "credentials.secret")
}
