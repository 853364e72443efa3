// Package repository defines the activity registry store interface and errors.
package repository

import (
	"context"
	"sync"
	"time"

	roster "github.com/mergington/rollcall/internal/domain/roster"
	types "github.com/mergington/rollcall/internal/domain/types"
	"github.com/mergington/rollcall/pkg/metrics"
)

// In-memory Store implementation.
//
// The registry is a fixed set of activities whose rosters mutate under a
// single RWMutex. State is volatile: a restart reseeds from the catalog and
// every signup made since the last start is gone.

// record holds the mutable state of one activity.
type record struct {
	description     string
	schedule        string
	maxParticipants int
	members         *roster.Roster
}

// MemStore implements Store over a mutex-guarded map keyed by activity name.
type MemStore struct {
	mu     sync.RWMutex
	byName map[string]*record
}

// NewMemStore constructs a memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		byName: make(map[string]*record),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Publish initial gauge values for the seeded registry
	s.refreshGauges()

	return s
}

// seedActivity installs one activity record. Only called during construction,
// before the store is shared, so no locking is needed.
func (s *MemStore) seedActivity(name string, activity types.Activity) {
	s.byName[name] = &record{
		description:     activity.Description,
		schedule:        activity.Schedule,
		maxParticipants: activity.MaxParticipants,
		members:         roster.NewFrom(activity.Participants),
	}
}

// List returns a snapshot of every activity keyed by name.
func (s *MemStore) List(ctx context.Context) types.Registry {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(types.Registry, len(s.byName))
	for name, rec := range s.byName {
		out[name] = rec.snapshot()
	}
	return out
}

// Get returns a snapshot of a single activity.
func (s *MemStore) Get(ctx context.Context, name string) (types.Activity, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byName[name]
	if !ok {
		metrics.RecordLookupMiss()
		return types.Activity{}, ErrNotFound
	}
	return rec.snapshot(), nil
}

// SignUp adds email to the roster of the named activity. The roster enforces
// email uniqueness; capacity is deliberately not checked, so signups past
// maxParticipants succeed.
func (s *MemStore) SignUp(ctx context.Context, name, email string) error {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	rec, ok := s.byName[name]
	if !ok {
		s.mu.Unlock()
		metrics.RecordLookupMiss()
		return ErrNotFound
	}
	if err := rec.members.Add(email); err != nil {
		s.mu.Unlock()
		metrics.RecordSignupConflict()
		return err
	}
	size := rec.members.Len()
	max := rec.maxParticipants
	total := s.participantsLocked()
	s.mu.Unlock()

	// Update metrics outside the lock
	metrics.RecordSignup()
	publishRosterGauges(name, size, max)
	metrics.UpdateParticipantsTotal(total)
	return nil
}

// Unregister removes email from the roster of the named activity.
func (s *MemStore) Unregister(ctx context.Context, name, email string) error {
	start := time.Now()
	defer func() {
		metrics.RecordRegistryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	rec, ok := s.byName[name]
	if !ok {
		s.mu.Unlock()
		metrics.RecordLookupMiss()
		return ErrNotFound
	}
	if err := rec.members.Remove(email); err != nil {
		s.mu.Unlock()
		metrics.RecordUnregisterConflict()
		return err
	}
	size := rec.members.Len()
	max := rec.maxParticipants
	total := s.participantsLocked()
	s.mu.Unlock()

	// Update metrics outside the lock
	metrics.RecordUnregistration()
	publishRosterGauges(name, size, max)
	metrics.UpdateParticipantsTotal(total)
	return nil
}

// Count returns the number of activities in the registry.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// ParticipantCount returns the number of signups across all rosters.
func (s *MemStore) ParticipantCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participantsLocked()
}

// participantsLocked sums roster sizes. Must be called with s.mu held.
func (s *MemStore) participantsLocked() int {
	total := 0
	for _, rec := range s.byName {
		total += rec.members.Len()
	}
	return total
}

// refreshGauges republishes every registry gauge from current state.
func (s *MemStore) refreshGauges() {
	type rosterState struct {
		name string
		size int
		max  int
	}

	s.mu.RLock()
	states := make([]rosterState, 0, len(s.byName))
	for name, rec := range s.byName {
		states = append(states, rosterState{name: name, size: rec.members.Len(), max: rec.maxParticipants})
	}
	activities := len(s.byName)
	total := s.participantsLocked()
	s.mu.RUnlock()

	metrics.UpdateActivitiesTotal(activities)
	metrics.UpdateParticipantsTotal(total)
	for _, st := range states {
		publishRosterGauges(st.name, st.size, st.max)
	}
}

// snapshot copies a record into its wire shape.
func (r *record) snapshot() types.Activity {
	return types.Activity{
		Description:     r.description,
		Schedule:        r.schedule,
		MaxParticipants: r.maxParticipants,
		Participants:    r.members.Emails(),
	}
}

// publishRosterGauges updates the per-activity size and fill-ratio gauges.
func publishRosterGauges(name string, size, max int) {
	metrics.UpdateRosterSize(name, size)
	if max > 0 {
		metrics.UpdateRosterUtilization(name, float64(size)/float64(max))
	}
}
