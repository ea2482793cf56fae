package activity

import "context"

// Repository stores the per-tenant log of chart mutations.
// List returns entries newest first.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}
