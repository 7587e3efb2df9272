package repository

import (
	"errors"
	"time"

	"learnpack_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// ListByUser 按最近访问倒序；packId 给定时进一步过滤到单个学习包
func (r *ProgressRepository) ListByUser(userID string, packID *uint) ([]model.UserProgress, error) {
	query := r.DB.Where("user_id = ?", userID)
	if packID != nil {
		query = query.Where("pack_id = ?", *packID)
	}

	var rows []model.UserProgress
	err := query.Order("last_accessed_at DESC").Find(&rows).Error
	return rows, err
}

// Upsert 先查后写：存在则合并字段并刷新 last_accessed_at，否则新建。
// 没有行锁，同一 (user, pack) 并发写入按 last-write-wins 处理，
// 单用户单设备的使用模式下可以接受。
func (r *ProgressRepository) Upsert(p *model.UserProgress) (*model.UserProgress, error) {
	now := time.Now()

	var existing model.UserProgress
	err := r.DB.Where("user_id = ? AND pack_id = ?", p.UserID, p.PackID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p.LastAccessedAt = now
		if err := r.DB.Create(p).Error; err != nil {
			return nil, err
		}
		return p, nil
	} else if err != nil {
		return nil, err
	}

	existing.Progress = p.Progress
	existing.Status = p.Status
	existing.TimeSpent = p.TimeSpent
	if p.CompletedAt != nil {
		existing.CompletedAt = p.CompletedAt
	}
	existing.LastAccessedAt = now
	existing.UpdatedAt = now
	if err := r.DB.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// CurrentLearning 最近访问的 in_progress 记录，连同学习包一起返回
func (r *ProgressRepository) CurrentLearning(userID string) (*model.UserProgress, error) {
	var row model.UserProgress
	err := r.DB.Preload("Pack").
		Where("user_id = ? AND status = ?", userID, model.StatusInProgress).
		Order("last_accessed_at DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// RecentWithPack 最近访问的进度记录（不限状态），连同学习包，倒序
func (r *ProgressRepository) RecentWithPack(userID string, limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Preload("Pack").
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
