package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	roster "github.com/mergington/rollcall/internal/domain/roster"
	types "github.com/mergington/rollcall/internal/domain/types"
)

func TestMemStore_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if total := store.ParticipantCount(ctx); total != 0 {
		t.Errorf("expected participant count 0, got %d", total)
	}
	if reg := store.List(ctx); len(reg) != 0 {
		t.Errorf("expected empty registry, got %d entries", len(reg))
	}

	// Every operation on an unknown name reports ErrNotFound.
	if _, err := store.Get(ctx, "Chess Club"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.SignUp(ctx, "Chess Club", "x@mergington.edu"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Unregister(ctx, "Chess Club", "x@mergington.edu"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStore_SeedIntegrity(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	if count := store.Count(ctx); count != 9 {
		t.Errorf("expected 9 activities, got %d", count)
	}
	// Two seeded participants per activity.
	if total := store.ParticipantCount(ctx); total != 18 {
		t.Errorf("expected 18 participants, got %d", total)
	}

	chess, err := store.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chess.MaxParticipants != 12 {
		t.Errorf("expected max 12, got %d", chess.MaxParticipants)
	}
	want := []string{"michael@mergington.edu", "daniel@mergington.edu"}
	if len(chess.Participants) != len(want) {
		t.Fatalf("expected %d participants, got %d", len(want), len(chess.Participants))
	}
	for i, email := range want {
		if chess.Participants[i] != email {
			t.Errorf("participant %d: expected %s, got %s", i, email, chess.Participants[i])
		}
	}
}

func TestMemStore_SignUp(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	if err := store.SignUp(ctx, "Chess Club", "newstudent@mergington.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chess, err := store.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chess.Participants) != 3 {
		t.Errorf("expected 3 participants, got %d", len(chess.Participants))
	}
	// New members are appended, existing order is preserved.
	if chess.Participants[2] != "newstudent@mergington.edu" {
		t.Errorf("expected new student last, got %s", chess.Participants[2])
	}

	// Unknown activity.
	if err := store.SignUp(ctx, "Knitting Circle", "x@mergington.edu"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Duplicate signup leaves the roster unchanged.
	if err := store.SignUp(ctx, "Chess Club", "newstudent@mergington.edu"); !errors.Is(err, roster.ErrDuplicateMember) {
		t.Errorf("expected ErrDuplicateMember, got %v", err)
	}
	chess, _ = store.Get(ctx, "Chess Club")
	if len(chess.Participants) != 3 {
		t.Errorf("expected 3 participants after duplicate, got %d", len(chess.Participants))
	}
}

func TestMemStore_SignUpListsEmailExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	for name := range DefaultCatalog() {
		email := "once@mergington.edu"
		if err := store.SignUp(ctx, name, email); err != nil {
			t.Fatalf("signup for %s failed: %v", name, err)
		}

		activity := store.List(ctx)[name]
		seen := 0
		for _, p := range activity.Participants {
			if p == email {
				seen++
			}
		}
		if seen != 1 {
			t.Errorf("%s: expected %s listed exactly once, got %d", name, email, seen)
		}
	}
}

func TestMemStore_NoCapacityEnforcement(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(types.Registry{
		"Tiny Club": {
			Description:     "A club with almost no room",
			Schedule:        "Mondays, 3:30 PM - 4:00 PM",
			MaxParticipants: 2,
			Participants:    []string{"a@mergington.edu", "b@mergington.edu"},
		},
	}))

	// max_participants is informational: signups past it still succeed.
	for i := 0; i < 5; i++ {
		email := fmt.Sprintf("over%d@mergington.edu", i)
		if err := store.SignUp(ctx, "Tiny Club", email); err != nil {
			t.Fatalf("signup past capacity failed: %v", err)
		}
	}

	activity, err := store.Get(ctx, "Tiny Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activity.Participants) != 7 {
		t.Errorf("expected 7 participants, got %d", len(activity.Participants))
	}
}

func TestMemStore_Unregister(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	if err := store.Unregister(ctx, "Chess Club", "michael@mergington.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chess, err := store.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chess.Participants) != 1 {
		t.Errorf("expected 1 participant, got %d", len(chess.Participants))
	}
	if chess.Participants[0] != "daniel@mergington.edu" {
		t.Errorf("expected daniel to remain, got %s", chess.Participants[0])
	}

	// Unknown activity.
	if err := store.Unregister(ctx, "Knitting Circle", "x@mergington.edu"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Unregistering a non-member fails and leaves state unchanged.
	if err := store.Unregister(ctx, "Chess Club", "stranger@mergington.edu"); !errors.Is(err, roster.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
	chess, _ = store.Get(ctx, "Chess Club")
	if len(chess.Participants) != 1 {
		t.Errorf("expected 1 participant after failed unregister, got %d", len(chess.Participants))
	}
}

func TestMemStore_SignUpUnregisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	before, err := store.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(before.Participants) != 2 {
		t.Fatalf("expected seed of 2 participants, got %d", len(before.Participants))
	}

	if err := store.SignUp(ctx, "Chess Club", "x@y.edu"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	during, _ := store.Get(ctx, "Chess Club")
	if len(during.Participants) != 3 {
		t.Errorf("expected 3 participants after signup, got %d", len(during.Participants))
	}
	found := false
	for _, p := range during.Participants {
		if p == "x@y.edu" {
			found = true
		}
	}
	if !found {
		t.Error("expected x@y.edu on the roster after signup")
	}

	if err := store.Unregister(ctx, "Chess Club", "x@y.edu"); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}

	// The roster is back to its exact prior contents.
	after, _ := store.Get(ctx, "Chess Club")
	if len(after.Participants) != len(before.Participants) {
		t.Fatalf("expected %d participants after round trip, got %d", len(before.Participants), len(after.Participants))
	}
	for i := range before.Participants {
		if after.Participants[i] != before.Participants[i] {
			t.Errorf("participant %d: expected %s, got %s", i, before.Participants[i], after.Participants[i])
		}
	}
}

func TestMemStore_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	// Mutating a listed registry must not leak into the store.
	reg := store.List(ctx)
	chess := reg["Chess Club"]
	chess.Participants[0] = "tampered@mergington.edu"
	chess.MaxParticipants = 999
	reg["Chess Club"] = chess
	delete(reg, "Art Club")

	fresh, err := store.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Participants[0] != "michael@mergington.edu" {
		t.Errorf("store leaked listed slice: got %s", fresh.Participants[0])
	}
	if fresh.MaxParticipants != 12 {
		t.Errorf("store leaked listed struct: got max %d", fresh.MaxParticipants)
	}
	if count := store.Count(ctx); count != 9 {
		t.Errorf("expected 9 activities, got %d", count)
	}

	// Same isolation for Get snapshots.
	snap, _ := store.Get(ctx, "Chess Club")
	snap.Participants[1] = "tampered@mergington.edu"
	fresh, _ = store.Get(ctx, "Chess Club")
	if fresh.Participants[1] != "daniel@mergington.edu" {
		t.Errorf("store leaked get snapshot: got %s", fresh.Participants[1])
	}
}

func TestMemStore_SeedIndependence(t *testing.T) {
	ctx := context.Background()

	// Two stores seeded from DefaultCatalog never share roster state.
	a := NewMemStore(WithSeed(DefaultCatalog()))
	b := NewMemStore(WithSeed(DefaultCatalog()))

	if err := a.SignUp(ctx, "Chess Club", "only-in-a@mergington.edu"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	chessB, err := b.Get(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chessB.Participants) != 2 {
		t.Errorf("stores share seed state: expected 2 participants, got %d", len(chessB.Participants))
	}
}

func TestMemStore_ParticipantCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	base := store.ParticipantCount(ctx)
	if err := store.SignUp(ctx, "Math Club", "counts@mergington.edu"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if got := store.ParticipantCount(ctx); got != base+1 {
		t.Errorf("expected %d participants, got %d", base+1, got)
	}
	if err := store.Unregister(ctx, "Math Club", "counts@mergington.edu"); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}
	if got := store.ParticipantCount(ctx); got != base {
		t.Errorf("expected %d participants, got %d", base, got)
	}
}

func TestMemStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))
	names := make([]string, 0, 9)
	for name := range DefaultCatalog() {
		names = append(names, name)
	}

	numGoroutines := 10
	numOps := 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				name := names[(id+j)%len(names)]
				email := fmt.Sprintf("worker%d_%d@mergington.edu", id, j)
				if err := store.SignUp(ctx, name, email); err != nil {
					t.Errorf("signup failed: %v", err)
					return
				}
				if err := store.Unregister(ctx, name, email); err != nil {
					t.Errorf("unregister failed: %v", err)
					return
				}
			}
		}(i)
	}

	// Readers run alongside the writers.
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				_ = store.List(ctx)
				_, _ = store.Get(ctx, "Chess Club")
				_ = store.ParticipantCount(ctx)
			}
		}()
	}

	wg.Wait()

	// Every round-tripped email is gone again; only seeds remain.
	if total := store.ParticipantCount(ctx); total != 18 {
		t.Errorf("expected 18 participants after round trips, got %d", total)
	}
}

func TestMemStore_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))

	// Concurrent signups of one email resolve to exactly one membership;
	// the losers see ErrDuplicateMember, never corruption.
	numGoroutines := 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.SignUp(ctx, "Debate Team", "contested@mergington.edu"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, roster.ErrDuplicateMember) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful signup, got %d", succeeded)
	}
	debate, err := store.Get(ctx, "Debate Team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := 0
	for _, p := range debate.Participants {
		if p == "contested@mergington.edu" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("expected contested email exactly once, got %d", seen)
	}
}

func TestDefaultCatalog_FreshCopies(t *testing.T) {
	// Each call returns an independent value; mutating one copy's slices
	// must not bleed into the next.
	first := DefaultCatalog()
	first["Chess Club"].Participants[0] = "tampered@mergington.edu"

	second := DefaultCatalog()
	if second["Chess Club"].Participants[0] != "michael@mergington.edu" {
		t.Errorf("DefaultCatalog shares state between calls: got %s", second["Chess Club"].Participants[0])
	}
}
