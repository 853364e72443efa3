package roster

import (
	"errors"
)

// Sentinel kinds for membership errors. These allow errors.Is from callers.
var (
	ErrDuplicateMember = errors.New("already a member")
	ErrNotMember       = errors.New("not a member")
)
