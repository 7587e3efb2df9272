package service

import (
	"context"
	"testing"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserDashboard_AggregatesAllSections(t *testing.T) {
	db := newTestDB(t)
	packRepo := repository.NewPackRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	recs := NewRecommendationService(packRepo, activityRepo, progressRepo, &stubAI{}, nil)
	progress := NewProgressService(progressRepo, activityRepo, recs)
	svc := NewDashboardService(progress, recs, progressRepo)

	active := createPack(t, db, model.LearningPack{Title: "진행중", Rating: 30, IsPublic: true})
	createPack(t, db, model.LearningPack{Title: "추천 후보", Rating: 49, IsPublic: true})

	_, err := progress.Upsert(context.Background(), "user-1", UpsertProgressRequest{
		PackID: active.ID, Progress: 60, Status: model.StatusInProgress,
	})
	require.NoError(t, err)

	dashboard, err := svc.GetUserDashboard(context.Background(), "user-1")
	require.NoError(t, err)

	require.NotNil(t, dashboard.CurrentLearning)
	assert.Equal(t, active.ID, dashboard.CurrentLearning.PackID)
	assert.NotEmpty(t, dashboard.RecommendedPacks)
	require.Len(t, dashboard.RecentActivities, 1)
	require.NotNil(t, dashboard.RecentActivities[0].Pack)
	assert.Equal(t, "진행중", dashboard.RecentActivities[0].Pack.Title)
}

func TestGetUserDashboard_EmptyStateForNewUser(t *testing.T) {
	db := newTestDB(t)
	packRepo := repository.NewPackRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	recs := NewRecommendationService(packRepo, activityRepo, progressRepo, &stubAI{}, nil)
	progress := NewProgressService(progressRepo, activityRepo, recs)
	svc := NewDashboardService(progress, recs, progressRepo)

	dashboard, err := svc.GetUserDashboard(context.Background(), "fresh-user")
	require.NoError(t, err)

	assert.Nil(t, dashboard.CurrentLearning)
	assert.Empty(t, dashboard.RecommendedPacks)
	assert.Empty(t, dashboard.RecentActivities)
}
