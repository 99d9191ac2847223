package http

import (
	"net/http"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
)

type TeamHandler struct {
	IdentityService *service.IdentityService
}

type identityResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toIdentityResponse(id domain.Identity) identityResponse {
	return identityResponse{
		ID:        id.ID,
		Email:     id.Email,
		Role:      id.Role.String(),
		Active:    id.Active,
		CreatedAt: id.CreatedAt,
	}
}

// ServeHTTP returns the identities inside the caller's visibility scope:
// the whole tenant for admin-class roles, the transitive downline plus the
// caller for manager-class roles, just the caller for everyone else.
func (h *TeamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	identities, err := h.IdentityService.VisibleIdentities(r.Context(), claims)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]identityResponse, 0, len(identities))
	for _, id := range identities {
		out = append(out, toIdentityResponse(id))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
