package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/projectboard/internal/domain/project"
	"github.com/rpggio/projectboard/internal/repository"
)

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

const projectColumns = "id, title, description, people, status, created_at, updated_at"

// ProjectRepository journals board projects. The seq column keeps the order
// projects were added so a restored board lists them the same way.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create appends proj to the journal at the given board tick.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project, tick int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO projects ("+projectColumns+", tick) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		proj.ID, proj.Title, proj.Description, proj.People, proj.Status, proj.CreatedAt, proj.UpdatedAt, tick,
	)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("project %s: %w", proj.ID, repository.ErrConflict)
	case err != nil:
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// UpdateStatus records a move. Other fields never change after creation.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status project.Status, updatedAt time.Time, tick int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE projects SET status = ?, updated_at = ?, tick = ? WHERE id = ?",
		status, updatedAt, tick, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	proj, err := scanProject(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("project %s: %w", id, repository.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &proj, nil
}

// List returns every journaled project in the order it was added.
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}
	return projects, rows.Err()
}

// LastTick returns the highest board tick journaled so far, or zero for an
// empty journal. The activity log is consulted too, since it carries ticks for
// projects journaled before the projects table had a tick column.
func (r *ProjectRepository) LastTick(ctx context.Context) (int64, error) {
	var tick int64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(
			COALESCE((SELECT MAX(tick) FROM projects), 0),
			COALESCE((SELECT MAX(tick) FROM activity_log), 0)
		)
	`).Scan(&tick)
	if err != nil {
		return 0, fmt.Errorf("failed to read last tick: %w", err)
	}
	return tick, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (project.Project, error) {
	var p project.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.People, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
