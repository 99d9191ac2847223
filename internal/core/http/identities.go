package http

import (
	"encoding/json"
	"net/http"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
)

type IdentityHandler struct {
	IdentityService  *service.IdentityService
	HierarchyService *service.HierarchyService
}

// HandleList returns the identities the caller may administer, filtered by
// the same visibility rule as the team view.
func (h *IdentityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
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

type createIdentityRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

func (h *IdentityHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req createIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	identity, err := h.IdentityService.Create(r.Context(), claims, service.CreateIdentityRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		TenantID: req.TenantID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toIdentityResponse(identity))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *IdentityHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.IdentityService.ChangeRole(r.Context(), claims, r.PathValue("id"), role); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *IdentityHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	if err := h.IdentityService.SetActive(r.Context(), claims, r.PathValue("id"), req.Active); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IdentityHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	if err := h.IdentityService.Delete(r.Context(), claims, r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignManagerRequest struct {
	ManagerID string `json:"manager_id"`
	TenantID  string `json:"tenant_id"`
}

// HandleAssignManager sets or replaces the reporting line for an identity
// within a tenant. An empty manager_id clears it.
func (h *IdentityHandler) HandleAssignManager(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeBearerError(w, "missing token")
		return
	}

	var req assignManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "malformed request body")
		return
	}

	if err := h.HierarchyService.AssignManager(r.Context(), claims, r.PathValue("id"), req.ManagerID, req.TenantID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
