package project

import "context"

// Repository provides persistence for projects. List returns projects in
// chart order.
type Repository interface {
	Create(ctx context.Context, tenantID string, proj *Project) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	Update(ctx context.Context, tenantID string, proj *Project) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string) ([]Project, error)
	Reorder(ctx context.Context, tenantID string, ids []string) error
	ReplaceAll(ctx context.Context, tenantID string, projects []Project) error
}

// RevisionCounter advances the tenant's chart revision after every mutation.
type RevisionCounter interface {
	IncrementRevision(ctx context.Context, tenantID string) (int64, error)
}
