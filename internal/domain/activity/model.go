package activity

import "time"

// Kind names what happened to a project.
type Kind string

const (
	KindProjectCreated Kind = "project_created"
	KindProjectMoved   Kind = "project_moved"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindProjectCreated || k == KindProjectMoved
}

// Entry is one row of the board's activity log. Tick ties it to the
// snapshot that produced it.
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Kind      Kind      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON-encoded change
	CreatedAt time.Time `json:"created_at"`
	Tick      int64     `json:"tick"`
}

// Query filters the activity log. Zero values match everything.
type Query struct {
	ProjectID string
	Kind      *Kind
	SinceTick int64 // only entries with a tick strictly greater
	Limit     int
	Offset    int
}
