package repository

import (
	"testing"
	"time"

	"learnpack_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestActivityCompletedPackIDs_DeduplicatesRepeatedCompletions(t *testing.T) {
	repo := NewActivityRepository(newTestDB(t))

	for _, entityID := range []*uint{uintPtr(1), uintPtr(1), uintPtr(2), nil} {
		require.NoError(t, repo.Create(&model.UserActivity{
			UserID:       "user-1",
			ActivityType: model.ActivityPackCompleted,
			EntityID:     entityID,
		}))
	}
	require.NoError(t, repo.Create(&model.UserActivity{
		UserID:       "user-1",
		ActivityType: model.ActivityPackStarted,
		EntityID:     uintPtr(3),
	}))

	ids, err := repo.CompletedPackIDs("user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, ids)
}

func TestActivityListByUser_MostRecentFirst(t *testing.T) {
	repo := NewActivityRepository(newTestDB(t))

	base := time.Now().Add(-time.Hour)
	types := []string{model.ActivityPackStarted, model.ActivityProgressUpdated, model.ActivityChatInteraction}
	for i, at := range types {
		require.NoError(t, repo.Create(&model.UserActivity{
			UserID:       "user-1",
			ActivityType: at,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	activities, err := repo.ListByUser("user-1", 2)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, model.ActivityChatInteraction, activities[0].ActivityType)
	assert.Equal(t, model.ActivityProgressUpdated, activities[1].ActivityType)
}
