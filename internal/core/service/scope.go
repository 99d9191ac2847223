package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// ScopeService resolves and switches the tenant a session is bound to. The
// binding lives inside the token, so a switch mints a new token; the
// identity's primary-tenant record is updated as well so the next login
// starts where the caller left off.
type ScopeService struct {
	Store  store.Store
	Tokens *TokenService
}

// CurrentTenant returns the tenant the session is bound to. Empty means an
// unbound SUPER_ADMIN: unscoped for reads, but tenant-scoped writes must
// call RequireTenant first.
func (s *ScopeService) CurrentTenant(claims domain.Claims) string {
	return claims.TenantID
}

// RequireTenant returns the bound tenant or ErrValidation when the session
// has none. Every tenant-scoped write goes through this.
func (s *ScopeService) RequireTenant(claims domain.Claims) (string, error) {
	if claims.TenantID == "" {
		return "", fmt.Errorf("%w: no tenant bound to session", domain.ErrValidation)
	}
	return claims.TenantID, nil
}

// SwitchTenant validates the caller's access to the requested tenant and
// re-issues the session token with it embedded. Order matters: validate,
// mint, persist, return. A failure persisting the primary-tenant record
// returns the error, never a token the client would believe is durably
// bound.
func (s *ScopeService) SwitchTenant(ctx context.Context, claims domain.Claims, tenantID string) (string, time.Time, error) {
	log := slogx.FromContext(ctx)

	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", time.Time{}, fmt.Errorf("%w: tenant id is required", domain.ErrValidation)
	}

	if _, err := s.Store.Tenants().GetTenantByID(ctx, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, domain.ErrNotFound
		}
		return "", time.Time{}, err
	}

	// One membership lookup answers both questions: access for everyone
	// below SUPER_ADMIN, and whether a primary-tenant row exists to update.
	// SUPER_ADMIN is implicitly a member of every tenant but may hold no row.
	hasRow, err := s.Store.Tenants().IsMember(ctx, claims.IdentityID, tenantID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !hasRow && claims.Role != domain.RoleSuperAdmin {
		log.Warn("tenant switch denied",
			"identity_id", claims.IdentityID,
			"tenant_id", tenantID,
		)
		return "", time.Time{}, domain.ErrForbidden
	}

	token, expiresAt, err := s.Tokens.Issue(claims.IdentityID, claims.Email, claims.Role, tenantID)
	if err != nil {
		return "", time.Time{}, err
	}

	// Persist the primary binding so the next login lands on this tenant.
	if hasRow {
		if err := s.Store.Tenants().SetPrimary(ctx, claims.IdentityID, tenantID); err != nil {
			return "", time.Time{}, err
		}
	}

	return token, expiresAt, nil
}
