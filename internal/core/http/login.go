package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
)

type LoginHandler struct {
	LoginService *service.LoginService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TenantID  string    `json:"tenant_id,omitempty"`
	Role      string    `json:"role"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	result, err := h.LoginService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		TenantID:  result.Claims.TenantID,
		Role:      result.Claims.Role.String(),
	})
}
