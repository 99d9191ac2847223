package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
)

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM tenants WHERE id = ?`, id)
	return scanTenant(row)
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, now, now)
	return mapConstraint(err)
}

func (r *tenantsRepo) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTenants(rows)
}

func (r *tenantsRepo) ListTenantsForIdentity(ctx context.Context, identityID string) ([]domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.created_at, t.updated_at
		 FROM tenants t
		 JOIN memberships m ON m.tenant_id = t.id
		 WHERE m.identity_id = ?
		 ORDER BY t.created_at`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTenants(rows)
}

func (r *tenantsRepo) AddMember(ctx context.Context, identityID, tenantID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (identity_id, tenant_id, is_primary, created_at)
		 VALUES (?, ?, 0, ?)`,
		identityID, tenantID, formatTime(time.Now()))
	return mapConstraint(err)
}

func (r *tenantsRepo) RemoveMember(ctx context.Context, identityID, tenantID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE identity_id = ? AND tenant_id = ?`,
		identityID, tenantID)
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

func (r *tenantsRepo) IsMember(ctx context.Context, identityID, tenantID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE identity_id = ? AND tenant_id = ?`,
		identityID, tenantID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetPrimary clears the identity's existing primary flag and sets it on the
// given membership. Runs as two statements; call it inside WithTx when it
// must be atomic with other writes.
func (r *tenantsRepo) SetPrimary(ctx context.Context, identityID, tenantID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE memberships SET is_primary = 0 WHERE identity_id = ?`, identityID); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE memberships SET is_primary = 1 WHERE identity_id = ? AND tenant_id = ?`,
		identityID, tenantID)
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

func (r *tenantsRepo) GetPrimaryTenantID(ctx context.Context, identityID string) (string, error) {
	var tenantID string
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id FROM memberships WHERE identity_id = ? AND is_primary = 1`,
		identityID).Scan(&tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return tenantID, nil
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var (
		t                  domain.Tenant
		createdAt, updated string
	)
	if err := row.Scan(&t.ID, &t.Name, &createdAt, &updated); err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updated)
	return t, nil
}

func collectTenants(rows *sql.Rows) ([]domain.Tenant, error) {
	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
