package chart

import (
	"context"

	"github.com/rpggio/ganttline/internal/domain/project"
)

// Repository persists per-tenant chart state. Get returns
// repository.ErrNotFound for a tenant that has never been written.
// Stored settings may have zero fields; the service fills them from defaults.
type Repository interface {
	Get(ctx context.Context, tenantID string) (*Chart, error)
	SaveSettings(ctx context.Context, tenantID string, settings Settings) (int64, error)
	IncrementRevision(ctx context.Context, tenantID string) (int64, error)
}

// Projects is the part of the project service the chart needs.
type Projects interface {
	List(ctx context.Context, tenantID string) ([]project.Project, error)
	Replace(ctx context.Context, tenantID string, projects []project.Project) ([]project.Project, error)
}
