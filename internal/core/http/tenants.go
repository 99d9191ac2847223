package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
)

type TenantHandler struct {
	TenantService *service.TenantService
	ScopeService  *service.ScopeService
}

type tenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// List returns the tenants visible to the caller: every tenant for
// SUPER_ADMIN, memberships for everyone else.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	tenants, err := h.TenantService.List(r.Context(), claims)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type createTenantRequest struct {
	Name string `json:"name"`
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	tenant, err := h.TenantService.Create(r.Context(), claims, req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTenantResponse(tenant))
}

type switchTenantRequest struct {
	TenantID string `json:"tenant_id"`
}

type switchTenantResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TenantID  string    `json:"tenant_id"`
}

// Switch rebinds the caller's session to another tenant and returns the
// replacement token. The old token stays valid until it expires.
func (h *TenantHandler) Switch(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req switchTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	token, expiresAt, err := h.ScopeService.SwitchTenant(r.Context(), claims, req.TenantID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, switchTenantResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		TenantID:  req.TenantID,
	})
}

type memberRequest struct {
	IdentityID string `json:"identity_id"`
}

func (h *TenantHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	if err := h.TenantService.AddMember(r.Context(), claims, req.IdentityID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TenantHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	if err := h.TenantService.RemoveMember(r.Context(), claims, r.PathValue("identity_id"), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
