package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo    *repository.ProgressRepository
	ActivityRepo    *repository.ActivityRepository
	Recommendations *RecommendationService
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	activityRepo *repository.ActivityRepository,
	recommendations *RecommendationService,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:    progressRepo,
		ActivityRepo:    activityRepo,
		Recommendations: recommendations,
	}
}

// UpsertProgressRequest 进度上报请求体，服务端补 userId
type UpsertProgressRequest struct {
	PackID    uint                 `json:"packId" binding:"required"`
	Progress  int                  `json:"progress"`
	Status    model.ProgressStatus `json:"status" binding:"required,oneof=not_started in_progress completed paused"`
	TimeSpent int                  `json:"timeSpent"`
}

func (s *ProgressService) List(userID string, packID *uint) ([]model.UserProgress, error) {
	return s.ProgressRepo.ListByUser(userID, packID)
}

// Upsert 写进度并追加一条行为日志；完成时日志类型为 pack_completed
// 并使该用户的推荐缓存失效
func (s *ProgressService) Upsert(ctx context.Context, userID string, req UpsertProgressRequest) (*model.UserProgress, error) {
	progress := req.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	row := &model.UserProgress{
		UserID:    userID,
		PackID:    req.PackID,
		Progress:  progress,
		Status:    req.Status,
		TimeSpent: req.TimeSpent,
	}
	if req.Status == model.StatusCompleted {
		now := time.Now()
		row.CompletedAt = &now
	}

	saved, err := s.ProgressRepo.Upsert(row)
	if err != nil {
		return nil, err
	}

	activityType := model.ActivityProgressUpdated
	if req.Status == model.StatusCompleted {
		activityType = model.ActivityPackCompleted
	}
	packID := req.PackID
	meta, _ := json.Marshal(map[string]interface{}{"progress": progress})
	if err := s.ActivityRepo.Create(&model.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		EntityID:     &packID,
		Metadata:     datatypes.JSON(meta),
	}); err != nil {
		return nil, err
	}

	if req.Status == model.StatusCompleted && s.Recommendations != nil {
		s.Recommendations.Invalidate(ctx, userID)
	}

	return saved, nil
}

// CurrentLearning 没有进行中的学习时返回 (nil, nil)，由调用方输出空结果
func (s *ProgressService) CurrentLearning(userID string) (*model.UserProgress, error) {
	row, err := s.ProgressRepo.CurrentLearning(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
