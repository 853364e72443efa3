// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// UnregisterDependencies defines the interface for unregister operations.
type UnregisterDependencies interface {
	Unregister(ctx context.Context, name, email string) error
}

// UnregisterHandler handles unregister requests.
type UnregisterHandler struct {
	deps UnregisterDependencies
}

// NewUnregisterHandler creates a new unregister handler.
func NewUnregisterHandler(deps UnregisterDependencies) *UnregisterHandler {
	return &UnregisterHandler{deps: deps}
}

// HandleUnregister handles DELETE /activities/{name}/unregister requests.
func (h *UnregisterHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use DELETE to unregister")
		return
	}
	name, ok := activityName(r.URL.Path, unregisterSuffix)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "query parameter email is required")
		return
	}
	if err := h.deps.Unregister(r.Context(), name, email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, name)})
}
