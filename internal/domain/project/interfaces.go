package project

import (
	"context"
	"time"
)

// Repository provides persistence for projects. Writes carry the board tick
// of the change so a restored board continues counting where it stopped.
type Repository interface {
	Create(ctx context.Context, proj *Project, tick int64) error
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time, tick int64) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	LastTick(ctx context.Context) (int64, error)
}
