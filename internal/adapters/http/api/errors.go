package api

import (
	"errors"
	"net/http"

	"github.com/mergington/rollcall/internal/adapters/repository"
	"github.com/mergington/rollcall/internal/domain/roster"
)

// Client-facing detail strings. The signup page and external callers key on
// these exact phrases, so they are fixed here rather than derived from the
// underlying error messages.
const (
	detailActivityNotFound = "Activity not found"
	detailAlreadySignedUp  = "Student is already signed up"
	detailNotRegistered    = "Student is not registered for this activity"
)

// writeDomainError translates registry errors into structured responses:
// unknown activities map to 404, membership conflicts to 400, anything
// unexpected to 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", detailActivityNotFound)
	case errors.Is(err, roster.ErrDuplicateMember):
		writeError(w, http.StatusBadRequest, "already_signed_up", detailAlreadySignedUp)
	case errors.Is(err, roster.ErrNotMember):
		writeError(w, http.StatusBadRequest, "not_registered", detailNotRegistered)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
