package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	projectID := "proj1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ProjectID:    &projectID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created",
		Revision:     1,
	}

	opts := activity.ListActivityOptions{ProjectID: &projectID, Limit: activity.DefaultLimit}
	repo.On("Log", ctx, tenantID, entry).Return(nil)
	repo.On("List", ctx, tenantID, opts).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, tenantID, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, tenantID, activity.ListActivityOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogRejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestRecord_SwallowsRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, "tenant1", mock.Anything).Return(errors.New("disk full"))

	entry := &activity.ActivityEntry{ActivityType: activity.TypeSettingsUpdated}
	activity.Record(ctx, repo, nil, "tenant1", entry)
	require.False(t, entry.CreatedAt.IsZero())
	repo.AssertNumberOfCalls(t, "Log", 1)

	activity.Record(ctx, nil, nil, "tenant1", entry)
}

func TestActivityService_ListOptions(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, "tenant1", activity.ListActivityOptions{SinceRevision: 3, Limit: activity.MaxLimit}).
		Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, nil)
	_, err := svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{SinceRevision: 3, Limit: 10000})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	_, err = svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{Offset: -1})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}
