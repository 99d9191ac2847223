package service

import (
	"context"
	"testing"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)
	svc := &AuthorizeService{Tokens: tokens}
	ctx := context.Background()

	issue := func(t *testing.T, role domain.Role) string {
		t.Helper()
		token, _, err := tokens.Issue("identity-1", "a@example.com", role, "tenant-1")
		require.NoError(t, err)
		return token
	}

	t.Run("allows a listed role", func(t *testing.T) {
		claims, err := svc.Authorize(ctx, issue(t, domain.RoleAdmin), domain.AdminRoles...)
		require.NoError(t, err)
		require.Equal(t, "identity-1", claims.IdentityID)
		require.Equal(t, domain.RoleAdmin, claims.Role)
		require.Equal(t, "tenant-1", claims.TenantID)
	})

	t.Run("rejects an unlisted role", func(t *testing.T) {
		_, err := svc.Authorize(ctx, issue(t, domain.RoleCustomer), domain.AdminRoles...)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("empty allow-list admits any authenticated identity", func(t *testing.T) {
		claims, err := svc.Authorize(ctx, issue(t, domain.RoleCustomer))
		require.NoError(t, err)
		require.Equal(t, domain.RoleCustomer, claims.Role)
	})

	t.Run("empty token is invalid, not forbidden", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "", domain.AdminRoles...)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("garbage token is invalid", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "not.a.token")
		require.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("expired token is invalid even with a matching role", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(
			"identity-1", "a@example.com", domain.RoleAdmin.String(), "tenant-1",
			time.Minute, "test-issuer", time.Now().Add(-time.Hour),
		)
		expired, err := tokens.Signer.Sign(claims)
		require.NoError(t, err)

		_, err = svc.Authorize(ctx, expired, domain.AdminRoles...)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("token carrying an unknown role is invalid", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(
			"identity-1", "a@example.com", "GODMODE", "tenant-1",
			time.Minute, "test-issuer", time.Now(),
		)
		token, err := tokens.Signer.Sign(claims)
		require.NoError(t, err)

		_, err = svc.Authorize(ctx, token)
		require.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)

	token, expiresAt, err := tokens.Issue("identity-9", "bob@example.com", domain.RoleManager, "tenant-2")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(tokens.TTL), expiresAt, 5*time.Second)

	claims, err := tokens.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "identity-9", claims.IdentityID)
	require.Equal(t, "bob@example.com", claims.Email)
	require.Equal(t, domain.RoleManager, claims.Role)
	require.Equal(t, "tenant-2", claims.TenantID)
}

func TestTokenDefaultTTL(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)
	tokens.TTL = 0

	_, expiresAt, err := tokens.Issue("identity-1", "", domain.RoleAdmin, "")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(jwtx.DefaultSessionTokenTTL), expiresAt, 5*time.Second)
}
