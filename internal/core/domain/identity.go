package domain

import "time"

// Identity is a person or service account that can authenticate against the
// platform. An identity can belong to many tenants but is bound to at most
// one of them per session.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt encoded
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
