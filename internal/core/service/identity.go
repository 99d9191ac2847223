package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/cryptox"
	"github.com/stafflane/stafflane/pkg/idx"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// IdentityService covers administrative identity management. Every mutation
// is written together with its audit entry in one transaction.
type IdentityService struct {
	Store     store.Store
	Audit     *AuditService
	Hierarchy *HierarchyService
}

// CreateIdentityRequest captures the validated inputs for a new identity.
type CreateIdentityRequest struct {
	Email    string
	Password string
	Role     domain.Role
	TenantID string // initial membership and primary tenant
}

// Create registers a new identity and its initial tenant membership.
func (s *IdentityService) Create(ctx context.Context, actor domain.Claims, req CreateIdentityRequest) (domain.Identity, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return domain.Identity{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if !req.Role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, req.Role)
	}
	if req.TenantID == "" {
		return domain.Identity{}, fmt.Errorf("%w: tenant id is required", domain.ErrValidation)
	}

	if _, err := s.Store.Tenants().GetTenantByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, domain.ErrNotFound
		}
		return domain.Identity{}, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.Identity{}, err
	}

	ident := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().CreateIdentity(ctx, ident); err != nil {
			return err
		}
		if err := tx.Tenants().AddMember(ctx, ident.ID, req.TenantID); err != nil {
			return err
		}
		if err := tx.Tenants().SetPrimary(ctx, ident.ID, req.TenantID); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "identity.created", "identity", ident.ID, map[string]any{
			"email":     email,
			"role":      req.Role.String(),
			"tenant_id": req.TenantID,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Identity{}, fmt.Errorf("%w: email already registered", domain.ErrValidation)
		}
		return domain.Identity{}, err
	}

	return ident, nil
}

// ChangeRole moves the identity to another role in the closed set.
func (s *IdentityService) ChangeRole(ctx context.Context, actor domain.Claims, identityID string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	ident, err := s.getIdentity(ctx, identityID)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().UpdateRole(ctx, identityID, role); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "identity.role_changed", "identity", identityID, map[string]any{
			"from": ident.Role.String(),
			"to":   role.String(),
		})
	})
}

// SetActive flips the active flag. A deactivated identity can no longer log
// in; existing tokens stay valid until they expire.
func (s *IdentityService) SetActive(ctx context.Context, actor domain.Claims, identityID string, active bool) error {
	if _, err := s.getIdentity(ctx, identityID); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().SetActive(ctx, identityID, active); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "identity.active_changed", "identity", identityID, map[string]any{
			"active": active,
		})
	})
}

// Delete removes an identity. The caller can never remove itself; an admin
// locked out of their own account is a support call, not a data loss event.
func (s *IdentityService) Delete(ctx context.Context, actor domain.Claims, identityID string) error {
	log := slogx.FromContext(ctx)

	if identityID == actor.IdentityID {
		log.Warn("identity self-delete rejected", "identity_id", identityID)
		return fmt.Errorf("%w: cannot delete own identity", domain.ErrValidation)
	}

	if _, err := s.getIdentity(ctx, identityID); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().DeleteIdentity(ctx, identityID); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "identity.deleted", "identity", identityID, nil)
	})
}

// ChangePassword replaces the caller's own password after proving knowledge
// of the current one. A wrong current password collapses to
// ErrInvalidCredentials like a failed login would.
func (s *IdentityService) ChangePassword(ctx context.Context, actor domain.Claims, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}

	ident, err := s.getIdentity(ctx, actor.IdentityID)
	if err != nil {
		return err
	}

	if cryptox.VerifyPassword(currentPassword, ident.PasswordHash) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().UpdatePasswordHash(ctx, actor.IdentityID, hash); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "identity.password_changed", "identity", actor.IdentityID, nil)
	})
}

// VisibleIdentities lists the identities the caller may see, filtered per
// the hierarchy contract: unscoped for admin-class, downline plus self for
// manager-class, self only for everyone else.
func (s *IdentityService) VisibleIdentities(ctx context.Context, claims domain.Claims) ([]domain.Identity, error) {
	filter, err := s.Hierarchy.VisibleIdentityIDs(ctx, claims)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		// Unscoped: whole tenant, or everything for an unbound SUPER_ADMIN.
		if claims.TenantID == "" {
			return s.Store.Identities().ListAll(ctx)
		}
		return s.Store.Identities().ListByTenant(ctx, claims.TenantID)
	}

	return s.Store.Identities().ListByIDs(ctx, filter)
}

func (s *IdentityService) getIdentity(ctx context.Context, identityID string) (domain.Identity, error) {
	ident, err := s.Store.Identities().GetIdentityByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, domain.ErrNotFound
		}
		return domain.Identity{}, err
	}
	return ident, nil
}
