package service

import (
	"context"
	"errors"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/util"
	"learnpack_backend/pkg/logger"
	"learnpack_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PackService struct {
	PackRepo *repository.PackRepository
	AI       AIClient
}

func NewPackService(packRepo *repository.PackRepository, ai AIClient) *PackService {
	return &PackService{PackRepo: packRepo, AI: ai}
}

// CreatePackRequest 创建请求，authorId 由服务端从会话注入
type CreatePackRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Difficulty  model.PackDifficulty `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Duration    int                  `json:"duration"`
	Rating      int                  `json:"rating"`
	Content     datatypes.JSON       `json:"content" binding:"required"`
	Tags        []string             `json:"tags"`
	IsPublic    *bool                `json:"isPublic"`
}

// UpdatePackRequest 部分更新，空字段不动
type UpdatePackRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Category    *string               `json:"category"`
	Difficulty  *model.PackDifficulty `json:"difficulty"`
	Duration    *int                  `json:"duration"`
	Rating      *int                  `json:"rating"`
	Content     datatypes.JSON        `json:"content"`
	Tags        []string              `json:"tags"`
	IsPublic    *bool                 `json:"isPublic"`
}

func (s *PackService) List(filter repository.PackFilter) ([]model.LearningPack, error) {
	return s.PackRepo.List(filter)
}

func (s *PackService) Get(id uint) (*model.LearningPack, error) {
	pack, err := s.PackRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPackNotFound
	}
	return pack, err
}

func (s *PackService) Create(authorID string, req CreatePackRequest) (*model.LearningPack, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	pack := &model.LearningPack{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Content:     req.Content,
		Tags:        req.Tags,
		IsPublic:    isPublic,
		AuthorID:    authorID,
	}
	if err := s.PackRepo.Create(pack); err != nil {
		return nil, err
	}
	return pack, nil
}

// Update 仅作者本人可改
func (s *PackService) Update(id uint, authorID string, req UpdatePackRequest) (*model.LearningPack, error) {
	pack, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if pack.AuthorID != authorID {
		return nil, util.ErrPermissionDenied
	}

	if req.Title != nil {
		pack.Title = *req.Title
	}
	if req.Description != nil {
		pack.Description = *req.Description
	}
	if req.Category != nil {
		pack.Category = *req.Category
	}
	if req.Difficulty != nil {
		pack.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		pack.Duration = *req.Duration
	}
	if req.Rating != nil {
		pack.Rating = *req.Rating
	}
	if req.Content != nil {
		pack.Content = req.Content
	}
	if req.Tags != nil {
		pack.Tags = req.Tags
	}
	if req.IsPublic != nil {
		pack.IsPublic = *req.IsPublic
	}

	if err := s.PackRepo.Update(pack); err != nil {
		return nil, err
	}
	return pack, nil
}

// Delete 返回是否确实删除了一行；作者不匹配时拒绝
func (s *PackService) Delete(id uint, authorID string) (bool, error) {
	pack, err := s.PackRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if pack.AuthorID != authorID {
		return false, util.ErrPermissionDenied
	}
	return s.PackRepo.Delete(id)
}

// GenerateQuiz 用学习包内容生成选择题，模型失败时退化为空题目列表
func (s *PackService) GenerateQuiz(ctx context.Context, id uint) ([]QuizQuestion, error) {
	pack, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	questions, err := s.AI.GenerateQuiz(ctx, string(pack.Content))
	if err != nil {
		logger.Log.Warn("AI quiz generation failed", zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("quiz", "fallback").Inc()
		return []QuizQuestion{}, nil
	}
	monitoring.AIRequestCounter.WithLabelValues("quiz", "ok").Inc()
	return questions, nil
}
