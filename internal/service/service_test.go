package service

import (
	"context"
	"os"
	"testing"

	"learnpack_backend/internal/model"
	"learnpack_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.LearningPack{},
		&model.UserProgress{},
		&model.ChatMessage{},
		&model.UserActivity{},
		&model.FileUpload{},
	))

	return db
}

func jsonContent() datatypes.JSON {
	return datatypes.JSON([]byte(`{"sections":[]}`))
}

func createPack(t *testing.T, db *gorm.DB, pack model.LearningPack) model.LearningPack {
	t.Helper()
	if pack.Content == nil {
		pack.Content = datatypes.JSON([]byte(`{"sections":[]}`))
	}
	require.NoError(t, db.Create(&pack).Error)
	return pack
}

// stubAI 按字段注入各任务的行为，未设置的任务返回零值
type stubAI struct {
	chatFn      func(ctx context.Context, msg string, chatCtx ChatContext) (*ChatResponse, error)
	recommendFn func(ctx context.Context, activities []model.UserActivity, packs []model.LearningPack) ([]AIRecommendation, error)
	summarizeFn func(ctx context.Context, preview, fileType string) (*UploadInsights, error)
	quizFn      func(ctx context.Context, content string) ([]QuizQuestion, error)
}

func (s *stubAI) GenerateChatResponse(ctx context.Context, msg string, chatCtx ChatContext) (*ChatResponse, error) {
	if s.chatFn != nil {
		return s.chatFn(ctx, msg, chatCtx)
	}
	return &ChatResponse{Message: "ok"}, nil
}

func (s *stubAI) GenerateRecommendations(ctx context.Context, activities []model.UserActivity, packs []model.LearningPack) ([]AIRecommendation, error) {
	if s.recommendFn != nil {
		return s.recommendFn(ctx, activities, packs)
	}
	return []AIRecommendation{}, nil
}

func (s *stubAI) SummarizeUpload(ctx context.Context, preview, fileType string) (*UploadInsights, error) {
	if s.summarizeFn != nil {
		return s.summarizeFn(ctx, preview, fileType)
	}
	return &UploadInsights{}, nil
}

func (s *stubAI) GenerateQuiz(ctx context.Context, content string) ([]QuizQuestion, error) {
	if s.quizFn != nil {
		return s.quizFn(ctx, content)
	}
	return []QuizQuestion{}, nil
}
