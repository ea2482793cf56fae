package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/repository"
	"github.com/rpggio/ganttline/internal/timeline"
)

// ChartRepository implements chart.Repository for SQLite
type ChartRepository struct {
	db  *DB
	now func() time.Time
}

// NewChartRepository creates a new ChartRepository
func NewChartRepository(db *DB) *ChartRepository {
	return &ChartRepository{db: db, now: time.Now}
}

// Get returns the tenant's chart row. Unset settings are returned as zero values.
func (r *ChartRepository) Get(ctx context.Context, tenantID string) (*chart.Chart, error) {
	query := `
		SELECT tenant_id, granularity, column_width, project_column_width, week_start, revision, updated_at
		FROM charts
		WHERE tenant_id = ?
	`

	var c chart.Chart
	var granularity, weekStart sql.NullString
	var columnWidth, projectColumnWidth sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&c.TenantID,
		&granularity,
		&columnWidth,
		&projectColumnWidth,
		&weekStart,
		&c.Revision,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}

	c.Settings = chart.Settings{
		Granularity:        timeline.Granularity(granularity.String),
		ColumnWidth:        columnWidth.Float64,
		ProjectColumnWidth: projectColumnWidth.Float64,
		WeekStart:          weekStart.String,
	}
	return &c, nil
}

// SaveSettings stores settings and advances the revision, creating the row when needed.
func (r *ChartRepository) SaveSettings(ctx context.Context, tenantID string, settings chart.Settings) (int64, error) {
	query := `
		INSERT INTO charts (tenant_id, granularity, column_width, project_column_width, week_start, revision, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET
			granularity = excluded.granularity,
			column_width = excluded.column_width,
			project_column_width = excluded.project_column_width,
			week_start = excluded.week_start,
			revision = charts.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision
	`

	var rev int64
	err := r.db.QueryRowContext(ctx, query,
		tenantID,
		string(settings.Granularity),
		settings.ColumnWidth,
		settings.ProjectColumnWidth,
		settings.WeekStart,
		r.now(),
	).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("failed to save chart settings: %w", err)
	}
	return rev, nil
}

// IncrementRevision atomically advances the tenant's revision and returns the new value
func (r *ChartRepository) IncrementRevision(ctx context.Context, tenantID string) (int64, error) {
	query := `
		INSERT INTO charts (tenant_id, revision, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET
			revision = charts.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision
	`

	var rev int64
	if err := r.db.QueryRowContext(ctx, query, tenantID, r.now()).Scan(&rev); err != nil {
		return 0, fmt.Errorf("failed to increment revision: %w", err)
	}
	return rev, nil
}
