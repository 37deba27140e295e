package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/projectboard/internal/domain/project"
)

// Recorder turns board changes into activity entries.
type Recorder struct {
	svc     *Service
	timeout time.Duration
}

// NewRecorder creates a recorder logging through svc.
func NewRecorder(svc *Service) *Recorder {
	return &Recorder{svc: svc, timeout: 5 * time.Second}
}

// Attach subscribes the recorder to state.
func (r *Recorder) Attach(state *project.State) *project.Subscription {
	return state.Subscribe(r.Record)
}

// Record logs the change carried by snap.
func (r *Recorder) Record(snap project.Snapshot) {
	entry, ok := entryFor(snap)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.svc.LogActivity(ctx, entry); err != nil {
		r.svc.logger.Error("activity log failed", "project_id", entry.ProjectID, "error", err)
	}
}

func entryFor(snap project.Snapshot) (*Entry, bool) {
	change := snap.Change
	entry := &Entry{
		ProjectID: change.Project.ID,
		CreatedAt: change.Project.UpdatedAt,
		Tick:      snap.Tick,
	}
	switch change.Kind {
	case project.ChangeCreated:
		entry.Kind = KindProjectCreated
		entry.Summary = fmt.Sprintf("created %q", change.Project.Title)
	case project.ChangeMoved:
		entry.Kind = KindProjectMoved
		entry.Summary = fmt.Sprintf("moved %q from %s to %s", change.Project.Title, change.From, change.Project.Status)
	default:
		return nil, false
	}

	details, err := json.Marshal(change)
	if err == nil {
		entry.Details = string(details)
	}
	return entry, true
}
