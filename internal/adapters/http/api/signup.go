// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// SignupDependencies defines the interface for signup operations.
type SignupDependencies interface {
	SignUp(ctx context.Context, name, email string) error
}

// SignupHandler handles signup requests.
type SignupHandler struct {
	deps SignupDependencies
}

// NewSignupHandler creates a new signup handler.
func NewSignupHandler(deps SignupDependencies) *SignupHandler {
	return &SignupHandler{deps: deps}
}

// HandleSignup handles POST /activities/{name}/signup requests. The student
// email arrives as a query parameter.
func (h *SignupHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST to sign up")
		return
	}
	name, ok := activityName(r.URL.Path, signupSuffix)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "query parameter email is required")
		return
	}
	if err := h.deps.SignUp(r.Context(), name, email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, name)})
}
