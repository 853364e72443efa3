// Package types contains common types used across the application
package types

// Activity describes one extracurricular activity. The activity name is the
// registry key, so it does not repeat inside the struct.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Registry maps activity names to their records. This is the wire shape of
// GET /activities.
type Registry map[string]Activity
