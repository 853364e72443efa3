// Package repository defines the activity registry store interface and errors.
package repository

import (
	types "github.com/mergington/rollcall/internal/domain/types"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithSeed populates the store with the given catalog at construction.
// Each activity's participants become its initial roster; duplicate emails
// within one activity are dropped.
func WithSeed(catalog types.Registry) Option {
	return func(s *MemStore) {
		for name, activity := range catalog {
			s.seedActivity(name, activity)
		}
	}
}
