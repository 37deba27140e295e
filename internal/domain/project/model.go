package project

import (
	"fmt"
	"time"
)

// Status is the board column a project sits in.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// ParseStatus converts user input to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusFinished:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Other returns the opposite column.
func (s Status) Other() Status {
	if s == StatusActive {
		return StatusFinished
	}
	return StatusActive
}

// Project is a unit of work on the board.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	People      int       `json:"people"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChangeKind identifies the mutation that produced a snapshot.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeMoved   ChangeKind = "moved"
)

// Change describes a single mutation. From is only set for moves.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Project Project    `json:"project"`
	From    Status     `json:"from,omitempty"`
}

// Snapshot is a point-in-time copy of the whole board in insertion order.
type Snapshot struct {
	Tick     int64     `json:"tick"`
	Projects []Project `json:"projects"`
	Change   Change    `json:"change"`
}

// Filter returns the projects in the snapshot with the given status.
func (s Snapshot) Filter(status Status) []Project {
	return filterByStatus(s.Projects, status)
}

func filterByStatus(projects []Project, status Status) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}
