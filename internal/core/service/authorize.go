package service

import (
	"context"
	"slices"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// AuthorizeService gates every protected operation. It decodes the session
// token once, checks the role allow-list, and hands back the claims that act
// as the principal for the rest of the request.
type AuthorizeService struct {
	Tokens *TokenService
}

// Authorize validates the raw token and then checks the caller's role
// against the allow-list, strictly in that order: an invalid token is
// always ErrInvalidToken no matter what roles the operation would require.
// An empty allow-list means any authenticated identity passes.
func (s *AuthorizeService) Authorize(ctx context.Context, rawToken string, allowed ...domain.Role) (domain.Claims, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Tokens.Decode(rawToken)
	if err != nil {
		return domain.Claims{}, err
	}

	if len(allowed) == 0 {
		return claims, nil
	}

	if !slices.Contains(allowed, claims.Role) {
		log.Warn("authorize: role not permitted",
			"identity_id", claims.IdentityID,
			"role", claims.Role.String(),
		)
		return domain.Claims{}, domain.ErrForbidden
	}

	return claims, nil
}
