package drill

import "time"

// Config holds configuration for a signup drill run
type Config struct {
	BaseURL    string        // Base URL of the service
	Students   int           // Number of synthetic students to sign up
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Unregister bool          // Remove the synthetic students afterwards
	LogFile    string        // Log file for drill output
	Verbose    bool          // Enable verbose logging
}

// Student pairs a synthetic email with its target activity
type Student struct {
	Email    string `json:"email"`
	Activity string `json:"activity"`
}

// Activity mirrors one registry entry returned by GET /activities
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Registry is the full listing keyed by activity name
type Registry map[string]Activity

// MessageResponse represents the confirmation from a roster mutation
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a structured API error
type ErrorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// Stats holds drill statistics
type Stats struct {
	StudentsGenerated  int
	SignupsSubmitted   int
	SignupsSuccessful  int
	SignupsConflicted  int
	SignupsFailed      int
	RemovalsSubmitted  int
	RemovalsSuccessful int
	RemovalsFailed     int
	ActivitiesSeen     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
