package domain

import "fmt"

// Role is the closed set of roles an identity can hold. Authorization
// allow-lists are built from these constants and the named sets below,
// never from ad hoc string arrays at call sites.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleManager        Role = "MANAGER"
	RoleTeamLeader     Role = "TEAM_LEADER"
	RoleFinanceAdmin   Role = "FINANCE_ADMIN"
	RoleHRManager      Role = "HR_MANAGER"
	RoleSalesExecutive Role = "SALES_EXECUTIVE"
	RoleEditor         Role = "EDITOR"
	RoleAgency         Role = "AGENCY"
	RoleCustomer       Role = "CUSTOMER"
)

// Named allow-lists. Each is defined exactly once so near-duplicate checks
// across handlers cannot drift apart.
var (
	// AdminRoles have full tenant visibility, no downline filtering.
	AdminRoles = []Role{RoleSuperAdmin, RoleAdmin}

	// ManagerRoles see their transitive downline plus themselves.
	ManagerRoles = []Role{RoleManager, RoleTeamLeader}

	// FinanceRoles may touch billing, journals and payment data.
	FinanceRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleFinanceAdmin}

	// HRRoles administer identities, reporting lines and leave data.
	HRRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleHRManager}

	// StaffRoles is every internal (non-external) role.
	StaffRoles = []Role{
		RoleSuperAdmin, RoleAdmin, RoleManager, RoleTeamLeader,
		RoleFinanceAdmin, RoleHRManager, RoleSalesExecutive, RoleEditor,
	}
)

var allRoles = map[Role]struct{}{
	RoleSuperAdmin:     {},
	RoleAdmin:          {},
	RoleManager:        {},
	RoleTeamLeader:     {},
	RoleFinanceAdmin:   {},
	RoleHRManager:      {},
	RoleSalesExecutive: {},
	RoleEditor:         {},
	RoleAgency:         {},
	RoleCustomer:       {},
}

// ParseRole validates a stored or transmitted role name against the closed
// set. Anything outside the set is a validation failure, never a new role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

func (r Role) String() string { return string(r) }

// IsAdminClass reports whether r has unscoped tenant visibility.
func (r Role) IsAdminClass() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// IsManagerClass reports whether r is scoped by downline resolution.
func (r Role) IsManagerClass() bool {
	return r == RoleManager || r == RoleTeamLeader
}

// RoleNames converts a role set to its string form, e.g. for HTTP
// middleware that works on plain strings.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}
