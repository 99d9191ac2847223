package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/cryptox"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// LoginService authenticates an email/password pair and issues a session
// token bound to the identity's primary tenant, when one is set.
type LoginService struct {
	Store  store.Store
	Tokens *TokenService
}

// LoginResult carries the minted token alongside the claims it embeds.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Claims    domain.Claims
}

// Login verifies credentials and mints a session token. Unknown email,
// wrong password and a deactivated identity all collapse to
// ErrInvalidCredentials here, at the operation boundary, so nothing
// upstream can tell which one happened.
func (s *LoginService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ident, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if cryptox.VerifyPassword(password, ident.PasswordHash) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !ident.Active {
		log.Warn("login attempt for deactivated identity", "identity_id", ident.ID)
		return nil, domain.ErrInvalidCredentials
	}

	tenantID, err := s.Store.Tenants().GetPrimaryTenantID(ctx, ident.ID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.Tokens.Issue(ident.ID, ident.Email, ident.Role, tenantID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Claims: domain.Claims{
			IdentityID: ident.ID,
			Email:      ident.Email,
			Role:       ident.Role,
			TenantID:   tenantID,
		},
	}, nil
}
