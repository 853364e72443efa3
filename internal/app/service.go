// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"

	repository "github.com/mergington/rollcall/internal/adapters/repository"
	"github.com/mergington/rollcall/internal/domain/types"
	"github.com/mergington/rollcall/pkg/logger"
	"github.com/mergington/rollcall/pkg/metrics"
)

// Service implements the API dependencies for the activity signup system.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry repository.Store
	catalog  types.Registry
	injected bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore injects a prebuilt registry store. When set, the catalog is
// ignored and the store is used as-is across restarts.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.registry = store
			s.injected = true
		}
	}
}

// WithCatalog overrides the activity catalog the registry is seeded with.
// Defaults to the built-in school catalog.
func WithCatalog(catalog types.Registry) Option {
	return func(s *Service) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting activity registry service...")

	// Seed a fresh in-memory registry unless a store was injected. The
	// catalog is loaded once per start, so every signup made before a
	// restart is gone.
	if !s.injected {
		catalog := s.catalog
		if catalog == nil {
			catalog = repository.DefaultCatalog()
		}
		s.registry = repository.NewMemStore(repository.WithSeed(catalog))
		s.logger.Info(ctx, "using in-memory registry store")
	}

	s.started = true
	s.logger.Info(ctx, "activity registry service started",
		logger.Int("activities", s.registry.Count(ctx)),
		logger.Int("participants", s.registry.ParticipantCount(ctx)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping activity registry service...")

	s.started = false
	s.logger.Info(context.Background(), "activity registry service stopped")
}

// Activities returns a snapshot of the full registry keyed by activity name.
func (s *Service) Activities(ctx context.Context) types.Registry {
	return s.store().List(ctx)
}

// SignUp adds email to the roster of the named activity. Errors pass
// through from the store: repository.ErrNotFound for unknown activities,
// roster.ErrDuplicateMember for repeat signups.
func (s *Service) SignUp(ctx context.Context, name, email string) error {
	if err := s.store().SignUp(ctx, name, email); err != nil {
		s.logger.Debug(ctx, "signup rejected",
			logger.String("activity", name),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}

	s.logger.Debug(ctx, "signed up",
		logger.String("activity", name),
		logger.String("email", email),
	)
	return nil
}

// Unregister removes email from the roster of the named activity. Errors
// pass through from the store: repository.ErrNotFound for unknown
// activities, roster.ErrNotMember for students not on the roster.
func (s *Service) Unregister(ctx context.Context, name, email string) error {
	if err := s.store().Unregister(ctx, name, email); err != nil {
		s.logger.Debug(ctx, "unregister rejected",
			logger.String("activity", name),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}

	s.logger.Debug(ctx, "unregistered",
		logger.String("activity", name),
		logger.String("email", email),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		activities := s.registry.Count(ctx)
		participants := s.registry.ParticipantCount(ctx)

		stats["activities"] = activities
		stats["participants"] = participants

		rosters := make(map[string]int, activities)
		for name, activity := range s.registry.List(ctx) {
			rosters[name] = len(activity.Participants)
		}
		stats["rosters"] = rosters

		// Update metrics
		metrics.UpdateActivitiesTotal(activities)
		metrics.UpdateParticipantsTotal(participants)
	}

	return stats
}

// store returns the registry under the read lock so operations never race
// a concurrent Start.
func (s *Service) store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}
