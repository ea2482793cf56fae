package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo       Repository
	revisions  RevisionCounter
	activities activity.Repository
	logger     *slog.Logger
}

// NewService creates a new project service. revisions and activities may be nil.
func NewService(repo Repository, revisions RevisionCounter, activities activity.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, revisions: revisions, activities: activities, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	SessionID string
	ID        string
	Name      string
	Tag       string
	StartDate time.Time
	EndDate   time.Time
	Color     string
}

// UpdateRequest changes the non-nil fields of a project.
type UpdateRequest struct {
	SessionID string
	ID        string
	Name      *string
	Tag       *string
	StartDate *time.Time
	EndDate   *time.Time
	Color     *string
}

// Create validates and appends a new project to the end of the chart.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	existing, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = PaletteColor(len(existing))
	}

	now := time.Now()
	proj := &Project{
		ID:        id,
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		Tag:       strings.TrimSpace(req.Tag),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Color:     color,
		Position:  len(existing),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Validate(*proj); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	rev, err := s.bump(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, tenantID, req.SessionID, &proj.ID, activity.TypeProjectCreated, fmt.Sprintf("created project %q", proj.Name), rev)
	return proj, nil
}

// Update applies a partial update to a project.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Project, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	current, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Tag != nil {
		updated.Tag = strings.TrimSpace(*req.Tag)
	}
	if req.StartDate != nil {
		updated.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		updated.EndDate = *req.EndDate
	}
	if req.Color != nil {
		updated.Color = strings.TrimSpace(*req.Color)
		if updated.Color == "" {
			updated.Color = DefaultColor
		}
	}
	if err := Validate(updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	rev, err := s.bump(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, tenantID, req.SessionID, &updated.ID, activity.TypeProjectUpdated, fmt.Sprintf("updated project %q", updated.Name), rev)
	return &updated, nil
}

// Delete removes a project. Remaining projects keep their relative order.
func (s *Service) Delete(ctx context.Context, tenantID, sessionID, id string) error {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}

	rev, err := s.bump(ctx, tenantID)
	if err != nil {
		return err
	}
	s.record(ctx, tenantID, sessionID, &current.ID, activity.TypeProjectDeleted, fmt.Sprintf("deleted project %q", current.Name), rev)
	return nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns the tenant's projects in chart order.
func (s *Service) List(ctx context.Context, tenantID string) ([]Project, error) {
	projects, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Move removes the project at index from and reinserts it at index to.
func (s *Service) Move(ctx context.Context, tenantID, sessionID string, from, to int) ([]Project, error) {
	projects, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	n := len(projects)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: move %d -> %d outside [0, %d)", ErrInvalidInput, from, to, n)
	}
	if from == to {
		return projects, nil
	}

	moved := projects[from]
	reordered := make([]Project, 0, n)
	reordered = append(reordered, projects[:from]...)
	reordered = append(reordered, projects[from+1:]...)
	reordered = append(reordered[:to], append([]Project{moved}, reordered[to:]...)...)

	ids := make([]string, n)
	for i := range reordered {
		reordered[i].Position = i
		ids[i] = reordered[i].ID
	}
	if err := s.repo.Reorder(ctx, tenantID, ids); err != nil {
		return nil, fmt.Errorf("reordering projects: %w", err)
	}

	rev, err := s.bump(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, tenantID, sessionID, &moved.ID, activity.TypeProjectsReordered, fmt.Sprintf("moved project %q from %d to %d", moved.Name, from, to), rev)
	return reordered, nil
}

// Replace swaps the tenant's whole collection for projects, in the given
// order. Missing IDs and colours are filled in; duplicates are rejected.
// Activity is left to the caller, which knows why the chart was replaced.
func (s *Service) Replace(ctx context.Context, tenantID string, projects []Project) ([]Project, error) {
	now := time.Now()
	seen := make(map[string]struct{}, len(projects))
	out := make([]Project, len(projects))
	for i, p := range projects {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}

		p.TenantID = tenantID
		p.Name = strings.TrimSpace(p.Name)
		p.Tag = strings.TrimSpace(p.Tag)
		if strings.TrimSpace(p.Color) == "" {
			p.Color = DefaultColor
		}
		p.Position = i
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		out[i] = p
	}

	if err := s.repo.ReplaceAll(ctx, tenantID, out); err != nil {
		return nil, fmt.Errorf("replacing projects: %w", err)
	}
	if _, err := s.bump(ctx, tenantID); err != nil {
		return nil, err
	}
	return out, nil
}

// bump advances the chart revision. Cached views are keyed by revision, so a
// mutation whose bump fails is reported as failed.
func (s *Service) bump(ctx context.Context, tenantID string) (int64, error) {
	if s.revisions == nil {
		return 0, nil
	}
	rev, err := s.revisions.IncrementRevision(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("advancing chart revision: %w", err)
	}
	return rev, nil
}

func (s *Service) record(ctx context.Context, tenantID, sessionID string, projectID *string, typ activity.ActivityType, summary string, rev int64) {
	entry := &activity.ActivityEntry{
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
		Revision:     rev,
	}
	if sessionID != "" {
		entry.SessionID = &sessionID
	}
	activity.Record(ctx, s.activities, s.logger, tenantID, entry)
}
