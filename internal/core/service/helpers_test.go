package service

import (
	"context"
	"testing"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/internal/core/store/drivers/sqlite"
	"github.com/stafflane/stafflane/pkg/cryptox"
	"github.com/stafflane/stafflane/pkg/idx"
	"github.com/stafflane/stafflane/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	return &TokenService{
		Signer:   signer,
		Verifier: jwtx.NewCommonEdDSA(keys, "test-issuer"),
		Issuer:   "test-issuer",
		TTL:      time.Minute,
	}
}

func seedTenant(t *testing.T, ctx context.Context, st store.Store, name string) domain.Tenant {
	t.Helper()

	tenant := domain.Tenant{ID: idx.New().String(), Name: name}
	require.NoError(t, st.Tenants().CreateTenant(ctx, tenant))
	return tenant
}

// seedIdentity creates an identity with a placeholder password hash and a
// primary membership in the given tenant. Login tests hash for real.
func seedIdentity(t *testing.T, ctx context.Context, st store.Store, email string, role domain.Role, tenantID string) domain.Identity {
	t.Helper()

	ident := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "unusable",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, st.Identities().CreateIdentity(ctx, ident))

	if tenantID != "" {
		require.NoError(t, st.Tenants().AddMember(ctx, ident.ID, tenantID))
		require.NoError(t, st.Tenants().SetPrimary(ctx, ident.ID, tenantID))
	}
	return ident
}

func seedEdge(t *testing.T, ctx context.Context, st store.Store, subordinateID, managerID, tenantID string) {
	t.Helper()
	require.NoError(t, st.Reporting().SetManager(ctx, subordinateID, managerID, tenantID))
}

func claimsFor(ident domain.Identity, tenantID string) domain.Claims {
	return domain.Claims{
		IdentityID: ident.ID,
		Email:      ident.Email,
		Role:       ident.Role,
		TenantID:   tenantID,
	}
}
