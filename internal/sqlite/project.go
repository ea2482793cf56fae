package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/repository"
)

const dateLayout = time.DateOnly

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, tenant_id, name, tag, start_date, end_date, color, position, created_at, updated_at`

// Create inserts a project. A duplicate id within the tenant returns repository.ErrConflict.
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, projectArgs(tenantID, proj)...)
	return insertError(err, "project")
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND tenant_id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// Update overwrites the editable fields of a project. Position is left alone.
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		UPDATE projects
		SET name = ?, tag = ?, start_date = ?, end_date = ?, color = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.Tag,
		proj.StartDate.Format(dateLayout),
		proj.EndDate.Format(dateLayout),
		proj.Color,
		proj.UpdatedAt,
		proj.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireRow(result)
}

// Delete removes a project and closes the gap it leaves in the ordering.
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx, `SELECT position FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID).Scan(&position)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get project position: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET position = position - 1 WHERE tenant_id = ? AND position > ?`,
		tenantID, position,
	); err != nil {
		return fmt.Errorf("failed to compact positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns the tenant's projects in chart order
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = ? ORDER BY position ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
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
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Reorder assigns positions following ids. Every id must belong to the tenant.
func (r *ProjectRepository) Reorder(ctx context.Context, tenantID string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		result, err := tx.ExecContext(ctx,
			`UPDATE projects SET position = ? WHERE id = ? AND tenant_id = ?`,
			i, id, tenantID,
		)
		if err != nil {
			return fmt.Errorf("failed to reorder projects: %w", err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReplaceAll swaps the tenant's whole collection for projects, in order.
func (r *ProjectRepository) ReplaceAll(ctx context.Context, tenantID string, projects []project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE tenant_id = ?`, tenantID); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range projects {
		proj := projects[i]
		proj.Position = i
		_, err := stmt.ExecContext(ctx, projectArgs(tenantID, &proj)...)
		if err := insertError(err, "project "+proj.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func projectArgs(tenantID string, proj *project.Project) []any {
	createdAt := proj.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := proj.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return []any{
		proj.ID,
		tenantID,
		proj.Name,
		proj.Tag,
		proj.StartDate.Format(dateLayout),
		proj.EndDate.Format(dateLayout),
		proj.Color,
		proj.Position,
		createdAt,
		updatedAt,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*project.Project, error) {
	var proj project.Project
	var start, end string
	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Name,
		&proj.Tag,
		&start,
		&end,
		&proj.Color,
		&proj.Position,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if proj.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", start, err)
	}
	if proj.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return nil, fmt.Errorf("parsing end_date %q: %w", end, err)
	}
	return &proj, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
