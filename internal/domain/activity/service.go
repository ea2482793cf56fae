package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Page sizes for GetRecentActivity.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Service handles activity log operations.
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

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Offset < 0 || opts.SinceRevision < 0 {
		return nil, fmt.Errorf("%w: offset and since_revision must not be negative", ErrInvalidInput)
	}
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultLimit
	case opts.Limit > MaxLimit:
		opts.Limit = MaxLimit
	}
	entries, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// Record logs entry and swallows the error after reporting it. Mutations
// call this so a failed log write never fails the mutation itself.
func Record(ctx context.Context, repo Repository, logger *slog.Logger, tenantID string, entry *ActivityEntry) {
	if repo == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := repo.Log(ctx, tenantID, entry); err != nil && logger != nil {
		logger.Warn("activity log write failed", "tenant_id", tenantID, "type", entry.ActivityType, "error", err)
	}
}
