package http

import (
	"encoding/json"
	"net/http"

	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
)

type MeHandler struct {
	IdentityService *service.IdentityService
}

type meResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
}

func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, meResponse{
		ID:       claims.IdentityID,
		Email:    claims.Email,
		Role:     claims.Role.String(),
		TenantID: claims.TenantID,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *MeHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	if err := h.IdentityService.ChangePassword(r.Context(), claims, req.CurrentPassword, req.NewPassword); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
