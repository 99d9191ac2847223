package service

import (
	"context"
	"testing"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/pkg/cryptox"
	"github.com/stafflane/stafflane/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	tokens := newTestTokens(t)
	svc := &LoginService{Store: st, Tokens: tokens}

	tenant := seedTenant(t, ctx, st, "Acme")

	hash, err := cryptox.HashPassword("s3cret-passw0rd")
	require.NoError(t, err)

	alice := domain.Identity{
		ID:           idx.New().String(),
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         domain.RoleManager,
		Active:       true,
	}
	require.NoError(t, st.Identities().CreateIdentity(ctx, alice))
	require.NoError(t, st.Tenants().AddMember(ctx, alice.ID, tenant.ID))
	require.NoError(t, st.Tenants().SetPrimary(ctx, alice.ID, tenant.ID))

	t.Run("valid credentials mint a token bound to the primary tenant", func(t *testing.T) {
		result, err := svc.Login(ctx, "alice@example.com", "s3cret-passw0rd")
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)
		require.Equal(t, alice.ID, result.Claims.IdentityID)
		require.Equal(t, domain.RoleManager, result.Claims.Role)
		require.Equal(t, tenant.ID, result.Claims.TenantID)

		decoded, err := tokens.Decode(result.Token)
		require.NoError(t, err)
		require.Equal(t, result.Claims, decoded)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		result, err := svc.Login(ctx, "  ALICE@example.COM ", "s3cret-passw0rd")
		require.NoError(t, err)
		require.Equal(t, alice.ID, result.Claims.IdentityID)
	})

	t.Run("wrong password collapses to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email collapses to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "s3cret-passw0rd")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("empty inputs collapse to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("deactivated identity collapses to invalid credentials", func(t *testing.T) {
		require.NoError(t, st.Identities().SetActive(ctx, alice.ID, false))
		t.Cleanup(func() {
			require.NoError(t, st.Identities().SetActive(ctx, alice.ID, true))
		})

		_, err := svc.Login(ctx, "alice@example.com", "s3cret-passw0rd")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestLoginWithoutPrimaryTenant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTestTokens(t)}

	hash, err := cryptox.HashPassword("root-passw0rd")
	require.NoError(t, err)

	root := domain.Identity{
		ID:           idx.New().String(),
		Email:        "root@example.com",
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		Active:       true,
	}
	require.NoError(t, st.Identities().CreateIdentity(ctx, root))

	result, err := svc.Login(ctx, "root@example.com", "root-passw0rd")
	require.NoError(t, err)
	require.Empty(t, result.Claims.TenantID, "no primary tenant means an unbound session")
}
