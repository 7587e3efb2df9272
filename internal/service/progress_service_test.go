package service

import (
	"context"
	"testing"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressService(t *testing.T) (*ProgressService, *repository.ActivityRepository) {
	db := newTestDB(t)
	progressRepo := repository.NewProgressRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	return NewProgressService(progressRepo, activityRepo, nil), activityRepo
}

func TestProgressUpsert_ClampsOutOfRangeValues(t *testing.T) {
	svc, _ := newProgressService(t)

	row, err := svc.Upsert(context.Background(), "user-1", UpsertProgressRequest{
		PackID:   1,
		Progress: 150,
		Status:   model.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, row.Progress)

	row, err = svc.Upsert(context.Background(), "user-1", UpsertProgressRequest{
		PackID:   1,
		Progress: -10,
		Status:   model.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, row.Progress)
}

func TestProgressUpsert_CompletionSetsTimestampAndLogsActivity(t *testing.T) {
	svc, activityRepo := newProgressService(t)

	row, err := svc.Upsert(context.Background(), "user-1", UpsertProgressRequest{
		PackID:   7,
		Progress: 100,
		Status:   model.StatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, row.CompletedAt)

	activities, err := activityRepo.ListByUser("user-1", 20)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityPackCompleted, activities[0].ActivityType)
	require.NotNil(t, activities[0].EntityID)
	assert.EqualValues(t, 7, *activities[0].EntityID)
}

func TestProgressUpsert_NonCompletionLogsProgressUpdated(t *testing.T) {
	svc, activityRepo := newProgressService(t)

	_, err := svc.Upsert(context.Background(), "user-1", UpsertProgressRequest{
		PackID:   3,
		Progress: 30,
		Status:   model.StatusInProgress,
	})
	require.NoError(t, err)

	activities, err := activityRepo.ListByUser("user-1", 20)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityProgressUpdated, activities[0].ActivityType)
}

func TestCurrentLearning_NoActivePackReturnsNil(t *testing.T) {
	svc, _ := newProgressService(t)

	current, err := svc.CurrentLearning("user-1")
	require.NoError(t, err)
	assert.Nil(t, current)
}
