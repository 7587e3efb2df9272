package repository

import (
	"testing"
	"time"

	"learnpack_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedPack(t *testing.T, repo *PackRepository, pack model.LearningPack) model.LearningPack {
	t.Helper()
	if pack.Content == nil {
		pack.Content = datatypes.JSON([]byte(`{"sections":[]}`))
	}
	require.NoError(t, repo.Create(&pack))
	return pack
}

func TestPackList_PublicOnly(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	seedPack(t, repo, model.LearningPack{Title: "公开包", IsPublic: true})
	seedPack(t, repo, model.LearningPack{Title: "私有包", IsPublic: false})

	packs, err := repo.List(PackFilter{})
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, "公开包", packs[0].Title)
}

func TestPackList_SearchCaseInsensitive(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	seedPack(t, repo, model.LearningPack{Title: "JavaScript Basics", IsPublic: true})
	seedPack(t, repo, model.LearningPack{Title: "SQL 入门", Description: "关系数据库 javascript 之外的世界", IsPublic: true})
	seedPack(t, repo, model.LearningPack{Title: "Go 并发", IsPublic: true})

	packs, err := repo.List(PackFilter{Search: "JAVASCRIPT"})
	require.NoError(t, err)
	assert.Len(t, packs, 2) // 标题和描述都参与匹配
}

func TestPackList_FilterAndPagination(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		pack := model.LearningPack{
			Title:      "frontend pack",
			Category:   "frontend",
			Difficulty: model.DifficultyBeginner,
			IsPublic:   true,
		}
		pack.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		seedPack(t, repo, pack)
	}
	seedPack(t, repo, model.LearningPack{Title: "db pack", Category: "database", IsPublic: true})

	packs, err := repo.List(PackFilter{Category: "frontend", Limit: 2})
	require.NoError(t, err)
	require.Len(t, packs, 2)
	// 新建在前
	assert.True(t, packs[0].CreatedAt.After(packs[1].CreatedAt))

	page2, err := repo.List(PackFilter{Category: "frontend", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.True(t, packs[1].CreatedAt.After(page2[0].CreatedAt))
}

func TestPackDelete_ReportsWhetherRowExisted(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	pack := seedPack(t, repo, model.LearningPack{Title: "to delete", IsPublic: true})

	deleted, err := repo.Delete(pack.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// 重复删除不报错，但返回 false
	deleted, err = repo.Delete(pack.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPackTopRated(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	seedPack(t, repo, model.LearningPack{Title: "low", Rating: 30, IsPublic: true})
	seedPack(t, repo, model.LearningPack{Title: "high", Rating: 48, IsPublic: true})
	seedPack(t, repo, model.LearningPack{Title: "hidden", Rating: 50, IsPublic: false})

	packs, err := repo.TopRated(2)
	require.NoError(t, err)
	require.Len(t, packs, 2)
	assert.Equal(t, "high", packs[0].Title)
	assert.Equal(t, "low", packs[1].Title)
}

func TestPackCategoriesByIDs(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	a := seedPack(t, repo, model.LearningPack{Title: "a", Category: "frontend", IsPublic: true})
	b := seedPack(t, repo, model.LearningPack{Title: "b", Category: "frontend", IsPublic: true})
	c := seedPack(t, repo, model.LearningPack{Title: "c", Category: "database", IsPublic: true})

	categories, err := repo.CategoriesByIDs([]uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"frontend", "database"}, categories)
}

func TestPackByCategoriesExcluding(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	done := seedPack(t, repo, model.LearningPack{Title: "done", Category: "frontend", Rating: 50, IsPublic: true})
	next := seedPack(t, repo, model.LearningPack{Title: "next", Category: "frontend", Rating: 40, IsPublic: true})
	seedPack(t, repo, model.LearningPack{Title: "other", Category: "database", Rating: 45, IsPublic: true})

	packs, err := repo.ByCategoriesExcluding([]string{"frontend"}, []uint{done.ID}, 10)
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, next.ID, packs[0].ID)
}
