package store

import (
	"context"
	"errors"

	"github.com/stafflane/stafflane/internal/core/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Identities() Identities
	Tenants() Tenants
	Reporting() Reporting
	Audit() Audit

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	// This is the recommended way to pair a mutation with its audit entry.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// GetIdentityByID returns an identity by id.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail is used during login.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// CreateIdentity inserts a new identity (id is provided by app via ULID).
	CreateIdentity(ctx context.Context, ident domain.Identity) error

	// UpdateRole sets the role and bumps updated_at.
	UpdateRole(ctx context.Context, identityID string, role domain.Role) error

	// SetActive flips the active flag and bumps updated_at.
	SetActive(ctx context.Context, identityID string, active bool) error

	// UpdatePasswordHash sets the password_hash (bcrypt) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, identityID string, newHash string) error

	// DeleteIdentity cascades to memberships and reporting edges (per schema).
	DeleteIdentity(ctx context.Context, identityID string) error

	// ListByTenant returns every identity that is a member of the tenant.
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Identity, error)

	// ListByIDs returns the identities for the given ids, skipping unknowns.
	ListByIDs(ctx context.Context, ids []string) ([]domain.Identity, error)

	// ListAll returns every identity across all tenants. Reserved for
	// unscoped SUPER_ADMIN reads.
	ListAll(ctx context.Context) ([]domain.Identity, error)

	// IsEmpty returns true if there are no identities (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Tenants interface {
	// GetTenantByID fetches a tenant by its id.
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// CreateTenant inserts a new tenant (id is ULID).
	CreateTenant(ctx context.Context, t domain.Tenant) error

	// ListTenants returns all tenants ordered by creation date.
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	// ListTenantsForIdentity returns the tenants the identity is a member of.
	ListTenantsForIdentity(ctx context.Context, identityID string) ([]domain.Tenant, error)

	// AddMember creates a membership row. Duplicate pairs are rejected.
	AddMember(ctx context.Context, identityID, tenantID string) error

	// RemoveMember deletes a membership row.
	RemoveMember(ctx context.Context, identityID, tenantID string) error

	// IsMember reports whether the identity belongs to the tenant.
	IsMember(ctx context.Context, identityID, tenantID string) (bool, error)

	// SetPrimary marks one membership primary and clears the flag on the
	// identity's other memberships.
	SetPrimary(ctx context.Context, identityID, tenantID string) error

	// GetPrimaryTenantID returns the primary tenant for the identity, or
	// "" when none is set.
	GetPrimaryTenantID(ctx context.Context, identityID string) (string, error)
}

type Reporting interface {
	// DirectSubordinates returns the ids of identities reporting directly
	// to the manager within the tenant.
	DirectSubordinates(ctx context.Context, managerID, tenantID string) ([]string, error)

	// SetManager upserts the reporting edge for a subordinate in a tenant.
	SetManager(ctx context.Context, subordinateID, managerID, tenantID string) error

	// RemoveManager deletes the subordinate's reporting edge in a tenant.
	RemoveManager(ctx context.Context, subordinateID, tenantID string) error
}

type Audit interface {
	// AppendEntry writes one immutable audit entry. There is no update or
	// delete; the table is append-only by contract.
	AppendEntry(ctx context.Context, e domain.AuditEntry) error

	// ListRecent returns the newest entries, most recent first.
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
