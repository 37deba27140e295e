package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Service validates user intent and applies it to the board state.
type Service struct {
	state  *State
	rules  Rules
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(state *State, rules Rules, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{state: state, rules: rules, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Title       string
	Description string
	People      int
}

// ListOptions filters List. An empty Status lists every project.
type ListOptions struct {
	Status Status
}

// State returns the underlying board state.
func (s *Service) State() *State {
	return s.state
}

// Create validates the request and adds an active project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if err := s.rules.ValidateCreateInput(req); err != nil {
		s.logger.DebugContext(ctx, "rejected project input", "title", req.Title, "people", req.People)
		return nil, err
	}

	proj := s.state.AddProject(strings.TrimSpace(req.Title), strings.TrimSpace(req.Description), req.People)
	s.logger.InfoContext(ctx, "project added", "id", proj.ID, "title", proj.Title)
	return &proj, nil
}

// Move changes the status of a project. The bool reports whether the status
// actually changed; moving to the current status is not an error.
func (s *Service) Move(ctx context.Context, id string, status Status) (*Project, bool, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, false, err
	}
	if _, ok := s.state.Get(id); !ok {
		return nil, false, fmt.Errorf("moving %s: %w", id, ErrProjectNotFound)
	}

	moved := s.state.MoveProject(id, status)
	proj, ok := s.state.Get(id)
	if !ok {
		return nil, false, fmt.Errorf("moving %s: %w", id, ErrProjectNotFound)
	}
	if moved {
		s.logger.InfoContext(ctx, "project moved", "id", id, "status", status)
	}
	return &proj, moved, nil
}

// Get fetches a project by ID.
func (s *Service) Get(_ context.Context, id string) (*Project, error) {
	proj, ok := s.state.Get(id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return &proj, nil
}

// List returns projects in insertion order.
func (s *Service) List(_ context.Context, opts ListOptions) ([]Project, error) {
	if opts.Status == "" {
		return s.state.Snapshot().Projects, nil
	}
	if _, err := ParseStatus(string(opts.Status)); err != nil {
		return nil, err
	}
	return s.state.Filter(opts.Status), nil
}

// Board returns the current snapshot of both columns.
func (s *Service) Board(_ context.Context) (Snapshot, error) {
	return s.state.Snapshot(), nil
}
