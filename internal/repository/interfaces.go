// Package repository declares the storage contracts the domain services
// depend on, so backends and test doubles can be checked against them.
package repository

import (
	"context"

	"github.com/rpggio/projectboard/internal/domain/activity"
	"github.com/rpggio/projectboard/internal/domain/project"
)

// ProjectRepository journals the board's projects.
type ProjectRepository interface {
	project.Repository
}

// ActivityRepository stores the activity log.
type ActivityRepository interface {
	activity.Repository
}

// APIKeyRepository resolves bearer tokens to key owners
type APIKeyRepository interface {
	Add(ctx context.Context, token, owner, description string) error
	ResolveOwner(ctx context.Context, token string) (string, error)
}
