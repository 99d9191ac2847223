package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/pkg/httpx"
)

type AuditHandler struct {
	AuditService *service.AuditService
}

type auditEntryResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ServeHTTP returns the most recent audit entries, newest first. The
// optional limit query parameter caps the page size.
func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.AuditService.ListRecent(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			EntityKind: e.EntityKind,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			CreatedAt:  e.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
