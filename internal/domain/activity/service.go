package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Service reads and writes the activity log.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// LogActivity stores entry, stamping CreatedAt when it is unset.
func (s *Service) LogActivity(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.ProjectID == "" || !entry.Kind.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging %s for %s: %w", entry.Kind, entry.ProjectID, err)
	}
	return nil
}

// GetRecentActivity returns entries matching q, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, q Query) ([]Entry, error) {
	if q.Kind != nil && !q.Kind.Valid() {
		return nil, ErrInvalidInput
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	q.Limit = min(q.Limit, maxLimit)
	q.Offset = max(q.Offset, 0)
	q.SinceTick = max(q.SinceTick, 0)

	entries, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
