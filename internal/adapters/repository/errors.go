package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound = errors.New("activity not found")
)
