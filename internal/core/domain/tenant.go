package domain

import "time"

// Tenant is an isolated organizational unit (a company). Data belonging to
// one tenant is never visible to members of another, with SUPER_ADMIN as
// the single exception.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership links an identity to a tenant. At most one membership per
// identity is flagged primary; it seeds the tenant binding on next login.
type Membership struct {
	IdentityID string
	TenantID   string
	Primary    bool
	CreatedAt  time.Time
}
