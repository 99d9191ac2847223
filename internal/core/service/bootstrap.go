package service

import (
	"context"
	"fmt"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/cryptox"
	"github.com/stafflane/stafflane/pkg/idx"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// BootstrapService seeds an empty store with the first SUPER_ADMIN and a
// default tenant. On a non-empty store it does nothing, so it is safe to
// run on every startup.
type BootstrapService struct {
	Store store.Store
}

// Bootstrap creates the initial admin and tenant when the store has no
// identities yet. Returns true when it seeded anything.
func (s *BootstrapService) Bootstrap(ctx context.Context, adminEmail, adminPassword, tenantName string) (bool, error) {
	log := slogx.FromContext(ctx)

	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, nil
	}

	if adminEmail == "" || adminPassword == "" {
		return false, fmt.Errorf("%w: bootstrap admin credentials are required", domain.ErrValidation)
	}
	if tenantName == "" {
		tenantName = "Default"
	}

	hash, err := cryptox.HashPassword(adminPassword)
	if err != nil {
		return false, err
	}

	admin := domain.Identity{
		ID:           idx.New().String(),
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		Active:       true,
	}
	tenant := domain.Tenant{
		ID:   idx.New().String(),
		Name: tenantName,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}
		if err := tx.Identities().CreateIdentity(ctx, admin); err != nil {
			return err
		}
		if err := tx.Tenants().AddMember(ctx, admin.ID, tenant.ID); err != nil {
			return err
		}
		if err := tx.Tenants().SetPrimary(ctx, admin.ID, tenant.ID); err != nil {
			return err
		}
		return tx.Audit().AppendEntry(ctx, domain.AuditEntry{
			ID:         idx.New().String(),
			ActorID:    admin.ID,
			Action:     "system.bootstrapped",
			EntityKind: "tenant",
			EntityID:   tenant.ID,
			Payload:    map[string]any{"admin_email": adminEmail},
		})
	})
	if err != nil {
		return false, err
	}

	log.Info("bootstrap complete", "admin_id", admin.ID, "tenant_id", tenant.ID)
	return true, nil
}
