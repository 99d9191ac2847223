package domain

// Claims are the decoded, trusted fields of a session token. They are built
// once per request by the authorization gate and passed explicitly through
// every downstream call; nothing re-decodes the token mid-request.
type Claims struct {
	IdentityID string
	Email      string
	Role       Role
	TenantID   string // empty for an unbound SUPER_ADMIN
}
