package repository

import (
	"learnpack_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Create 行为日志只追加，没有更新和删除路径
func (r *ActivityRepository) Create(activity *model.UserActivity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) ListByUser(userID string, limit int) ([]model.UserActivity, error) {
	if limit <= 0 {
		limit = 20
	}

	var activities []model.UserActivity
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// CompletedPackIDs 用户所有 pack_completed 事件引用的学习包 ID
func (r *ActivityRepository) CompletedPackIDs(userID string) ([]uint, error) {
	var activities []model.UserActivity
	err := r.DB.Where("user_id = ? AND activity_type = ?", userID, model.ActivityPackCompleted).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(activities))
	seen := make(map[uint]bool)
	for _, a := range activities {
		if a.EntityID == nil || seen[*a.EntityID] {
			continue
		}
		seen[*a.EntityID] = true
		ids = append(ids, *a.EntityID)
	}
	return ids, nil
}
