package repository

import (
	"testing"
	"time"

	"learnpack_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressUpsert_KeepsSingleRowPerUserAndPack(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	first, err := repo.Upsert(&model.UserProgress{
		UserID:   "user-1",
		PackID:   1,
		Progress: 20,
		Status:   model.StatusInProgress,
	})
	require.NoError(t, err)
	assert.False(t, first.LastAccessedAt.IsZero())

	completedAt := time.Now()
	second, err := repo.Upsert(&model.UserProgress{
		UserID:      "user-1",
		PackID:      1,
		Progress:    100,
		Status:      model.StatusCompleted,
		TimeSpent:   3600,
		CompletedAt: &completedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 100, second.Progress)
	assert.Equal(t, model.StatusCompleted, second.Status)
	require.NotNil(t, second.CompletedAt)

	var count int64
	require.NoError(t, db.Model(&model.UserProgress{}).Where("user_id = ? AND pack_id = ?", "user-1", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProgressUpsert_DoesNotClearCompletedAt(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	completedAt := time.Now()
	_, err := repo.Upsert(&model.UserProgress{
		UserID:      "user-1",
		PackID:      2,
		Progress:    100,
		Status:      model.StatusCompleted,
		CompletedAt: &completedAt,
	})
	require.NoError(t, err)

	// 重新打开学习包时不带 CompletedAt，已有的完成时间保留
	row, err := repo.Upsert(&model.UserProgress{
		UserID:   "user-1",
		PackID:   2,
		Progress: 100,
		Status:   model.StatusInProgress,
	})
	require.NoError(t, err)
	assert.NotNil(t, row.CompletedAt)
}

func TestProgressCurrentLearning(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	packRepo := NewPackRepository(db)

	older := seedPack(t, packRepo, model.LearningPack{Title: "older", IsPublic: true})
	newer := seedPack(t, packRepo, model.LearningPack{Title: "newer", IsPublic: true})
	finished := seedPack(t, packRepo, model.LearningPack{Title: "finished", IsPublic: true})

	now := time.Now()
	require.NoError(t, db.Create(&model.UserProgress{
		UserID: "user-1", PackID: older.ID, Status: model.StatusInProgress,
		LastAccessedAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&model.UserProgress{
		UserID: "user-1", PackID: newer.ID, Status: model.StatusInProgress,
		LastAccessedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.UserProgress{
		UserID: "user-1", PackID: finished.ID, Status: model.StatusCompleted,
		LastAccessedAt: now.Add(time.Hour),
	}).Error)

	current, err := repo.CurrentLearning("user-1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, current.PackID)
	require.NotNil(t, current.Pack)
	assert.Equal(t, "newer", current.Pack.Title)
}

func TestProgressRecentWithPack(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	packRepo := NewPackRepository(db)

	now := time.Now()
	for i := 0; i < 4; i++ {
		pack := seedPack(t, packRepo, model.LearningPack{Title: "p", IsPublic: true})
		require.NoError(t, db.Create(&model.UserProgress{
			UserID: "user-1", PackID: pack.ID, Status: model.StatusInProgress,
			LastAccessedAt: now.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	rows, err := repo.RecentWithPack("user-1", 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].LastAccessedAt.After(rows[1].LastAccessedAt))
	require.NotNil(t, rows[0].Pack)
}
