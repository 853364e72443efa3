// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mergington/rollcall/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Activities returns a snapshot of the registry keyed by activity name.
	Activities(ctx context.Context) types.Registry

	// SignUp adds email to the roster of the named activity.
	SignUp(ctx context.Context, name, email string) error

	// Unregister removes email from the roster of the named activity.
	Unregister(ctx context.Context, name, email string) error
}

// Registry and Activity mirror the read shapes returned by listings.
type (
	Registry = types.Registry
	Activity = types.Activity
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	signupHandler     *SignupHandler
	unregisterHandler *UnregisterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps),
		signupHandler:     NewSignupHandler(deps),
		unregisterHandler: NewUnregisterHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/activities", MetricsMiddleware(s.activitiesHandler.HandleListActivities, "activities"))

	// Roster actions live under /activities/{name}/<action>. Routing keys on
	// the action suffix so activity names may contain spaces; the handlers
	// parse the name out of the decoded path themselves.
	signup := MetricsMiddleware(s.signupHandler.HandleSignup, "signup")
	unregister := MetricsMiddleware(s.unregisterHandler.HandleUnregister, "unregister")
	mux.HandleFunc(activitiesPrefix, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, signupSuffix):
			signup(w, r)
		case strings.HasSuffix(r.URL.Path, unregisterSuffix):
			unregister(w, r)
		default:
			writeError(w, http.StatusNotFound, "not_found", "")
		}
	})
}

// messageResponse mirrors the confirmation shape for roster mutations.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse carries a machine-readable type and a human-readable detail.
type errorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Type: code, Detail: detail})
}
