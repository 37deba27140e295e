package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Journal persists every board change to a Repository.
//
// The in-memory state stays authoritative: a failed write is logged and the
// change is kept in memory.
type Journal struct {
	repo    Repository
	logger  *slog.Logger
	timeout time.Duration
}

// NewJournal creates a journal writing to repo.
func NewJournal(repo Repository, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Journal{repo: repo, logger: logger, timeout: 5 * time.Second}
}

// Load seeds state with the persisted projects.
func (j *Journal) Load(ctx context.Context, state *State) error {
	projects, err := j.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	tick, err := j.repo.LastTick(ctx)
	if err != nil {
		return fmt.Errorf("loading board tick: %w", err)
	}
	state.Restore(projects, tick)
	j.logger.Info("restored projects", "count", len(projects), "tick", tick)
	return nil
}

// Attach subscribes the journal to state.
func (j *Journal) Attach(state *State) *Subscription {
	return state.Subscribe(j.Record)
}

// Record writes the change carried by snap.
func (j *Journal) Record(snap Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.apply(ctx, snap.Change, snap.Tick); err != nil {
		j.logger.Error("journal write failed", "kind", snap.Change.Kind, "id", snap.Change.Project.ID, "error", err)
	}
}

func (j *Journal) apply(ctx context.Context, change Change, tick int64) error {
	switch change.Kind {
	case ChangeCreated:
		proj := change.Project
		return j.repo.Create(ctx, &proj, tick)
	case ChangeMoved:
		return j.repo.UpdateStatus(ctx, change.Project.ID, change.Project.Status, change.Project.UpdatedAt, tick)
	default:
		return errors.New("unknown change kind")
	}
}
