package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewSessionClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := NewSessionClaims(
		"identity-1", "alice@example.com", "HR_MANAGER", "tenant-1",
		DefaultSessionTokenTTL, "stafflane", now,
	)

	require.Equal(t, "identity-1", claims.Subject)
	require.Equal(t, "stafflane", claims.Issuer)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "HR_MANAGER", claims.Role)
	require.Equal(t, "tenant-1", claims.TenantID)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, now.Add(DefaultSessionTokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestNewJTIUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		jti := NewJTI()
		require.NotEmpty(t, jti)
		_, dup := seen[jti]
		require.False(t, dup, "jti should be unique")
		seen[jti] = struct{}{}
	}
}

func TestValidateIssuer(t *testing.T) {
	t.Parallel()

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "stafflane"}}

	require.NoError(t, claims.ValidateIssuer("stafflane"))
	require.NoError(t, claims.ValidateIssuer(""), "empty expected issuer enforces nothing")
	require.ErrorIs(t, claims.ValidateIssuer("other"), ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	t.Run("valid window", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
		require.NoError(t, claims.ValidateExpiry())
	})

	t.Run("expired", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}
		require.ErrorIs(t, claims.ValidateExpiry(), ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
		require.ErrorIs(t, claims.ValidateExpiry(), ErrNotYetValid)
	})
}
