package domain

import "time"

// AuditEntry records one authorization-relevant mutation. Entries are
// append-only; nothing in the platform mutates or deletes them.
type AuditEntry struct {
	ID         string
	ActorID    string
	Action     string // verb, e.g. "identity.role_changed"
	EntityKind string // e.g. "identity", "tenant"
	EntityID   string
	Payload    map[string]any // change description, stored as JSON
	CreatedAt  time.Time
}
