package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/projectboard/internal/domain/activity"
	"github.com/rpggio/projectboard/internal/repository"
)

var _ repository.ActivityRepository = (*ActivityRepository)(nil)

const activityColumns = "id, project_id, activity_type, summary, details, created_at, tick"

// ActivityRepository stores the board's activity log. Rows reference
// projects, so a project must be journaled before its activity.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts entry and fills in its ID
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var details sql.NullString
	if entry.Details != "" {
		details = sql.NullString{String: entry.Details, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (project_id, activity_type, summary, details, created_at, tick)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ProjectID, entry.Kind, entry.Summary, details, entry.CreatedAt, entry.Tick,
	)
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("activity for unknown project %s: %w", entry.ProjectID, repository.ErrNotFound)
	case err != nil:
		return fmt.Errorf("failed to log activity: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// List returns entries matching q, newest tick first
func (r *ActivityRepository) List(ctx context.Context, q activity.Query) ([]activity.Entry, error) {
	where, args := activityFilter(q)
	query := "SELECT " + activityColumns + " FROM activity_log" + where + " ORDER BY tick DESC, id DESC"

	// SQLite needs a LIMIT before it accepts an OFFSET; -1 means no limit.
	if q.Limit > 0 || q.Offset > 0 {
		limit := q.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, q.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func activityFilter(q activity.Query) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}

	if q.ProjectID != "" {
		add("project_id = ?", q.ProjectID)
	}
	if q.Kind != nil {
		add("activity_type = ?", *q.Kind)
	}
	if q.SinceTick > 0 {
		add("tick > ?", q.SinceTick)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanEntry(row rowScanner) (activity.Entry, error) {
	var entry activity.Entry
	var details sql.NullString
	err := row.Scan(
		&entry.ID,
		&entry.ProjectID,
		&entry.Kind,
		&entry.Summary,
		&details,
		&entry.CreatedAt,
		&entry.Tick,
	)
	entry.Details = details.String
	return entry, err
}
