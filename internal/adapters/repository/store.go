// Package repository defines the activity registry store interface and errors.
package repository

import (
	"context"

	types "github.com/mergington/rollcall/internal/domain/types"
)

// Store provides read/write access to the activity registry.
type Store interface {
	// List returns a snapshot of every activity keyed by name. Mutating the
	// returned registry does not affect the store.
	List(ctx context.Context) types.Registry

	// Get returns a snapshot of a single activity.
	// Returns ErrNotFound if the activity is unknown.
	Get(ctx context.Context, name string) (types.Activity, error)

	// SignUp adds email to the roster of the named activity.
	// Returns ErrNotFound for unknown activities and
	// roster.ErrDuplicateMember when the email is already signed up.
	SignUp(ctx context.Context, name, email string) error

	// Unregister removes email from the roster of the named activity.
	// Returns ErrNotFound for unknown activities and roster.ErrNotMember
	// when the email is not signed up.
	Unregister(ctx context.Context, name, email string) error

	// Count returns the number of activities in the registry.
	Count(ctx context.Context) int

	// ParticipantCount returns the number of signups across all rosters.
	ParticipantCount(ctx context.Context) int
}
