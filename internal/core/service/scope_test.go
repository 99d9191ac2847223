package service

import (
	"context"
	"testing"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stretchr/testify/require"
)

func TestSwitchTenant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	tokens := newTestTokens(t)
	svc := &ScopeService{Store: st, Tokens: tokens}

	acme := seedTenant(t, ctx, st, "Acme")
	globex := seedTenant(t, ctx, st, "Globex")

	bob := seedIdentity(t, ctx, st, "bob@example.com", domain.RoleEditor, acme.ID)
	require.NoError(t, st.Tenants().AddMember(ctx, bob.ID, globex.ID))

	t.Run("member switches and the primary tenant follows", func(t *testing.T) {
		token, _, err := svc.SwitchTenant(ctx, claimsFor(bob, acme.ID), globex.ID)
		require.NoError(t, err)

		claims, err := tokens.Decode(token)
		require.NoError(t, err)
		require.Equal(t, globex.ID, claims.TenantID)
		require.Equal(t, bob.ID, claims.IdentityID)
		require.Equal(t, domain.RoleEditor, claims.Role)

		primary, err := st.Tenants().GetPrimaryTenantID(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, globex.ID, primary)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		outsider := seedIdentity(t, ctx, st, "eve@example.com", domain.RoleEditor, acme.ID)

		_, _, err := svc.SwitchTenant(ctx, claimsFor(outsider, acme.ID), globex.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)

		primary, err := st.Tenants().GetPrimaryTenantID(ctx, outsider.ID)
		require.NoError(t, err)
		require.Equal(t, acme.ID, primary, "a denied switch must not move the primary tenant")
	})

	t.Run("unknown tenant is not found, not forbidden", func(t *testing.T) {
		_, _, err := svc.SwitchTenant(ctx, claimsFor(bob, acme.ID), "01J0000000000000000000XXXX")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty tenant id is a validation failure", func(t *testing.T) {
		_, _, err := svc.SwitchTenant(ctx, claimsFor(bob, acme.ID), "  ")
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("super admin switches without a membership row", func(t *testing.T) {
		root := seedIdentity(t, ctx, st, "root@example.com", domain.RoleSuperAdmin, "")

		token, _, err := svc.SwitchTenant(ctx, claimsFor(root, ""), acme.ID)
		require.NoError(t, err)

		claims, err := tokens.Decode(token)
		require.NoError(t, err)
		require.Equal(t, acme.ID, claims.TenantID)

		primary, err := st.Tenants().GetPrimaryTenantID(ctx, root.ID)
		require.NoError(t, err)
		require.Empty(t, primary, "implicit membership leaves no primary record behind")
	})
}

// countingTenants wraps the tenants repo to observe membership lookups.
type countingTenants struct {
	store.Tenants
	isMemberCalls int
}

func (c *countingTenants) IsMember(ctx context.Context, identityID, tenantID string) (bool, error) {
	c.isMemberCalls++
	return c.Tenants.IsMember(ctx, identityID, tenantID)
}

type countingStore struct {
	store.Store
	tenants *countingTenants
}

func (c *countingStore) Tenants() store.Tenants { return c.tenants }

func TestSwitchTenantSingleMembershipLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	tokens := newTestTokens(t)

	acme := seedTenant(t, ctx, st, "Acme")
	globex := seedTenant(t, ctx, st, "Globex")
	bob := seedIdentity(t, ctx, st, "bob@example.com", domain.RoleEditor, acme.ID)
	root := seedIdentity(t, ctx, st, "root@example.com", domain.RoleSuperAdmin, acme.ID)
	require.NoError(t, st.Tenants().AddMember(ctx, root.ID, globex.ID))

	counting := &countingStore{
		Store:   st,
		tenants: &countingTenants{Tenants: st.Tenants()},
	}
	svc := &ScopeService{Store: counting, Tokens: tokens}

	t.Run("member access and primary update share one lookup", func(t *testing.T) {
		counting.tenants.isMemberCalls = 0

		_, _, err := svc.SwitchTenant(ctx, claimsFor(bob, acme.ID), acme.ID)
		require.NoError(t, err)
		require.Equal(t, 1, counting.tenants.isMemberCalls)
	})

	t.Run("super admin with a membership row still updates the primary", func(t *testing.T) {
		counting.tenants.isMemberCalls = 0

		_, _, err := svc.SwitchTenant(ctx, claimsFor(root, acme.ID), globex.ID)
		require.NoError(t, err)
		require.Equal(t, 1, counting.tenants.isMemberCalls)

		primary, err := st.Tenants().GetPrimaryTenantID(ctx, root.ID)
		require.NoError(t, err)
		require.Equal(t, globex.ID, primary)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	svc := &ScopeService{}

	require.Equal(t, "tenant-1", svc.CurrentTenant(domain.Claims{TenantID: "tenant-1"}))
	require.Empty(t, svc.CurrentTenant(domain.Claims{}))

	t.Run("bound session", func(t *testing.T) {
		tenantID, err := svc.RequireTenant(domain.Claims{TenantID: "tenant-1"})
		require.NoError(t, err)
		require.Equal(t, "tenant-1", tenantID)
	})

	t.Run("unbound session", func(t *testing.T) {
		_, err := svc.RequireTenant(domain.Claims{})
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}
