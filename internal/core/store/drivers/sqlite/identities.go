package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
)

type identitiesRepo struct {
	db dbtx
}

const identityColumns = `id, email, password_hash, role, active, created_at, updated_at`

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = ?`, id)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = ?`, email)
	return scanIdentity(row)
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, ident domain.Identity) error {
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (id, email, password_hash, role, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ident.ID, ident.Email, ident.PasswordHash, ident.Role.String(), boolToInt(ident.Active), now, now)
	return mapConstraint(err)
}

func (r *identitiesRepo) UpdateRole(ctx context.Context, identityID string, role domain.Role) error {
	return r.exec1(ctx,
		`UPDATE identities SET role = ?, updated_at = ? WHERE id = ?`,
		role.String(), formatTime(time.Now()), identityID)
}

func (r *identitiesRepo) SetActive(ctx context.Context, identityID string, active bool) error {
	return r.exec1(ctx,
		`UPDATE identities SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), formatTime(time.Now()), identityID)
}

func (r *identitiesRepo) UpdatePasswordHash(ctx context.Context, identityID string, newHash string) error {
	return r.exec1(ctx,
		`UPDATE identities SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, formatTime(time.Now()), identityID)
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, identityID string) error {
	return r.exec1(ctx, `DELETE FROM identities WHERE id = ?`, identityID)
}

func (r *identitiesRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.email, i.password_hash, i.role, i.active, i.created_at, i.updated_at
		 FROM identities i
		 JOIN memberships m ON m.identity_id = i.id
		 WHERE m.tenant_id = ?
		 ORDER BY i.id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIdentities(rows)
}

func (r *identitiesRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Identity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIdentities(rows)
}

func (r *identitiesRepo) ListAll(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIdentities(rows)
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// exec1 runs a statement that targets one row and maps a zero-row result to
// store.ErrNotFound.
func (r *identitiesRepo) exec1(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (domain.Identity, error) {
	var (
		ident              domain.Identity
		role               string
		active             int
		createdAt, updated string
	)
	err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &role, &active, &createdAt, &updated)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	ident.Role = domain.Role(role)
	ident.Active = active != 0
	ident.CreatedAt = parseTime(createdAt)
	ident.UpdatedAt = parseTime(updated)
	return ident, nil
}

func collectIdentities(rows *sql.Rows) ([]domain.Identity, error) {
	var out []domain.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ident)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
