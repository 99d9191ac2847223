package http

import (
	"errors"
	"net/http"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/pkg/httpx"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// writeDomainError maps the core error taxonomy to status codes. Anything
// outside the taxonomy is a server error; its detail stays in the logs.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		writeBearerError(w, "invalid or expired token")
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, domain.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "Access denied")
	case errors.Is(err, domain.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Resource does not exist")
	case errors.Is(err, domain.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
	}
}
