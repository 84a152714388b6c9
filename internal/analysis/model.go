package analysis

import "time"

// Run modes.
const (
	ModeDirect  = "direct"
	ModeChunked = "chunked"
)

// Run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is the audit record of one analysis execution.
type Run struct {
	ID          string
	OwnerID     string
	Mode        string
	Status      string
	Error       string
	DurationMs  int64
	CreatedAt   time.Time
	CompletedAt *time.Time
}
