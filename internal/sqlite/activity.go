package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/ganttline/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, `INSERT INTO activity_log
		(tenant_id, project_id, session_id, activity_type, summary, details, created_at, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tenantID, entry.ProjectID, entry.SessionID, string(entry.ActivityType),
		entry.Summary, entry.Details, createdAt, entry.Revision)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.TenantID = tenantID
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters, newest first.
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	where, args := activityFilter(tenantID, opts)
	query := `SELECT id, tenant_id, project_id, session_id, activity_type, summary, details, created_at, revision
		FROM activity_log WHERE ` + where + ` ORDER BY created_at DESC, id DESC`

	// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
	if opts.Limit > 0 || opts.Offset > 0 {
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, max(opts.Offset, 0))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		entry, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}

func activityFilter(tenantID string, opts activity.ListActivityOptions) (string, []any) {
	conditions := []string{"tenant_id = ?"}
	args := []any{tenantID}
	add := func(cond string, arg any) {
		conditions = append(conditions, cond)
		args = append(args, arg)
	}
	if opts.ProjectID != nil {
		add("project_id = ?", *opts.ProjectID)
	}
	if opts.SessionID != nil {
		add("session_id = ?", *opts.SessionID)
	}
	if opts.ActivityType != nil {
		add("activity_type = ?", string(*opts.ActivityType))
	}
	if opts.SinceRevision > 0 {
		add("revision > ?", opts.SinceRevision)
	}
	return strings.Join(conditions, " AND "), args
}

func scanActivity(rows *sql.Rows) (activity.ActivityEntry, error) {
	var entry activity.ActivityEntry
	var projectID, sessionID, details sql.NullString
	err := rows.Scan(&entry.ID, &entry.TenantID, &projectID, &sessionID,
		&entry.ActivityType, &entry.Summary, &details, &entry.CreatedAt, &entry.Revision)
	if err != nil {
		return entry, fmt.Errorf("failed to scan activity entry: %w", err)
	}
	if projectID.Valid {
		entry.ProjectID = &projectID.String
	}
	if sessionID.Valid {
		entry.SessionID = &sessionID.String
	}
	entry.Details = details.String
	return entry, nil
}
