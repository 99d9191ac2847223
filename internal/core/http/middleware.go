package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
	"github.com/stafflane/stafflane/pkg/slogx"
)

type claimsCtxKey struct{}

// claimsFromContext returns the principal placed in the context by the gate
// middleware. Handlers behind gate() can rely on it being present.
func claimsFromContext(ctx context.Context) (domain.Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(domain.Claims)
	return c, ok
}

// gate authenticates and authorizes the request through the authorization
// gate. The token is decoded exactly once here; the resulting claims are
// the principal for everything downstream. No roles means any
// authenticated identity.
func gate(authorize *service.AuthorizeService, roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			claims, err := authorize.Authorize(ctx, bearerToken(r), roles...)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrInvalidToken):
					writeBearerError(w, "invalid or expired token")
				case errors.Is(err, domain.ErrForbidden):
					httpx.WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				default:
					log.Error("authorization failed", "err", err)
					httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
				}
				return
			}

			ctx = context.WithValue(ctx, claimsCtxKey{}, claims)
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, claims.IdentityID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
