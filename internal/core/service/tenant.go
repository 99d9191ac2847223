package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/idx"
)

// TenantService covers tenant administration: creation, listing and
// membership management.
type TenantService struct {
	Store store.Store
	Audit *AuditService
}

// Create registers a new tenant.
func (s *TenantService) Create(ctx context.Context, actor domain.Claims, name string) (domain.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tenant{}, fmt.Errorf("%w: tenant name is required", domain.ErrValidation)
	}

	tenant := domain.Tenant{
		ID:   idx.New().String(),
		Name: name,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "tenant.created", "tenant", tenant.ID, map[string]any{
			"name": name,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Tenant{}, fmt.Errorf("%w: tenant name already taken", domain.ErrValidation)
		}
		return domain.Tenant{}, err
	}

	return tenant, nil
}

// List returns the tenants visible to the caller: all of them for
// SUPER_ADMIN, the caller's memberships otherwise.
func (s *TenantService) List(ctx context.Context, claims domain.Claims) ([]domain.Tenant, error) {
	if claims.Role == domain.RoleSuperAdmin {
		return s.Store.Tenants().ListTenants(ctx)
	}
	return s.Store.Tenants().ListTenantsForIdentity(ctx, claims.IdentityID)
}

// AddMember joins an identity to a tenant.
func (s *TenantService) AddMember(ctx context.Context, actor domain.Claims, identityID, tenantID string) error {
	if _, err := s.Store.Tenants().GetTenantByID(ctx, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if _, err := s.Store.Identities().GetIdentityByID(ctx, identityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().AddMember(ctx, identityID, tenantID); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "tenant.member_added", "tenant", tenantID, map[string]any{
			"identity_id": identityID,
		})
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("%w: already a member", domain.ErrValidation)
	}
	return err
}

// RemoveMember detaches an identity from a tenant.
func (s *TenantService) RemoveMember(ctx context.Context, actor domain.Claims, identityID, tenantID string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().RemoveMember(ctx, identityID, tenantID); err != nil {
			return err
		}
		return s.Audit.RecordTx(ctx, tx, actor.IdentityID, "tenant.member_removed", "tenant", tenantID, map[string]any{
			"identity_id": identityID,
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}
