// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// ActivitiesDependencies defines the interface for listing operations.
type ActivitiesDependencies interface {
	Activities(ctx context.Context) Registry
}

// ActivitiesHandler handles activity listing requests.
type ActivitiesHandler struct {
	deps ActivitiesDependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivitiesDependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleListActivities handles GET /activities requests. The response is the
// full registry keyed by activity name, rosters included.
func (h *ActivitiesHandler) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET to list activities")
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Activities(r.Context()))
}
