package service

import (
	"fmt"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/pkg/jwtx"
)

// TokenService is the session token codec. A token is a pure function of its
// inputs, the current time and the signing key; switching tenant or changing
// role always mints a new token, never mutates an old one.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// Issue signs a session token for the identity. Expiry is fixed at issuance;
// there is no refresh path, an expired token means logging in again.
func (s *TokenService) Issue(identityID, email string, role domain.Role, tenantID string) (string, time.Time, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTokenTTL
	}

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims(identityID, email, role.String(), tenantID, ttl, s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return token, claims.ExpiresAt.Time, nil
}

// Decode verifies the signature and expiry and returns the trusted claims.
// Malformed input, a bad signature, expiry and an out-of-set role all
// collapse to ErrInvalidToken: a token that fails verification is never
// partially trusted.
func (s *TokenService) Decode(raw string) (domain.Claims, error) {
	if raw == "" {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: unknown role", domain.ErrInvalidToken)
	}

	return domain.Claims{
		IdentityID: claims.Subject,
		Email:      claims.Email,
		Role:       role,
		TenantID:   claims.TenantID,
	}, nil
}
