package mocks

import (
	"context"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Project, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Reorder(ctx context.Context, tenantID string, ids []string) error {
	args := m.Called(ctx, tenantID, ids)
	return args.Error(0)
}

func (m *ProjectRepository) ReplaceAll(ctx context.Context, tenantID string, projects []project.Project) error {
	args := m.Called(ctx, tenantID, projects)
	return args.Error(0)
}

// ChartRepository is a mock for chart.Repository.
type ChartRepository struct {
	mock.Mock
}

func (m *ChartRepository) Get(ctx context.Context, tenantID string) (*chart.Chart, error) {
	args := m.Called(ctx, tenantID)
	if c, ok := args.Get(0).(*chart.Chart); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChartRepository) SaveSettings(ctx context.Context, tenantID string, settings chart.Settings) (int64, error) {
	args := m.Called(ctx, tenantID, settings)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChartRepository) IncrementRevision(ctx context.Context, tenantID string) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
