package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/util"
	"learnpack_backend/pkg/logger"
	"learnpack_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 上游不可用或返回无法解析时的兜底回复，用户消息已经落库，不能让整轮失败
const (
	fallbackAssistantMessage = "죄송합니다. 현재 AI 서비스에 연결할 수 없습니다. 잠시 후 다시 시도해주세요."
)

var fallbackSuggestions = []string{"다시 시도하기", "도움말 보기"}

type ChatService struct {
	ChatRepo     *repository.ChatRepository
	ProgressRepo *repository.ProgressRepository
	ActivityRepo *repository.ActivityRepository
	AI           AIClient
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	progressRepo *repository.ProgressRepository,
	activityRepo *repository.ActivityRepository,
	ai AIClient,
) *ChatService {
	return &ChatService{
		ChatRepo:     chatRepo,
		ProgressRepo: progressRepo,
		ActivityRepo: activityRepo,
		AI:           ai,
	}
}

// ChatExchange 一轮完整对话：用户消息和助手回复都已持久化
type ChatExchange struct {
	UserMessage      *model.ChatMessage `json:"userMessage"`
	AssistantMessage *model.ChatMessage `json:"aiMessage"`
}

func (s *ChatService) ListMessages(userID string, limit int) ([]model.ChatMessage, error) {
	return s.ChatRepo.ListByUser(userID, limit)
}

// HandleUserMessage 持久化用户消息，并发收集上下文后请求模型，
// 助手回复与建议一起落库；模型失败时换成固定的道歉文案，
// 用户消息和行为日志无论如何都保留。
func (s *ChatService) HandleUserMessage(ctx context.Context, userID, text string, packID *uint) (*ChatExchange, error) {
	if strings.TrimSpace(text) == "" {
		return nil, util.ErrEmptyMessage
	}

	userMsg := &model.ChatMessage{
		UserID:  userID,
		Message: text,
		Role:    model.RoleUser,
		PackID:  packID,
	}
	if err := s.ChatRepo.Create(userMsg); err != nil {
		return nil, err
	}

	chatCtx := ChatContext{UserID: userID}
	var g errgroup.Group
	g.Go(func() error {
		current, err := s.ProgressRepo.CurrentLearning(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		chatCtx.CurrentPack = current.Pack
		return nil
	})
	g.Go(func() error {
		recent, err := s.ProgressRepo.RecentWithPack(userID, 5)
		if err != nil {
			return err
		}
		chatCtx.RecentActivities = recent
		return nil
	})
	g.Go(func() error {
		progress, err := s.ProgressRepo.ListByUser(userID, nil)
		if err != nil {
			return err
		}
		chatCtx.UserProgress = progress
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp, err := s.AI.GenerateChatResponse(ctx, text, chatCtx)
	if err != nil {
		logger.Log.Warn("AI chat response failed, using fallback", zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("chat", "fallback").Inc()
		resp = &ChatResponse{
			Message:     fallbackAssistantMessage,
			Suggestions: fallbackSuggestions,
		}
	} else {
		monitoring.AIRequestCounter.WithLabelValues("chat", "ok").Inc()
	}

	assistantMsg := &model.ChatMessage{
		UserID:  userID,
		Message: resp.Message,
		Role:    model.RoleAssistant,
		PackID:  packID,
		Metadata: datatypes.NewJSONType(model.ChatMetadata{
			Suggestions: resp.Suggestions,
			Actions:     resp.Actions,
		}),
	}
	if err := s.ChatRepo.Create(assistantMsg); err != nil {
		return nil, err
	}

	activityMeta, _ := json.Marshal(map[string]interface{}{"messageLength": len(text)})
	if err := s.ActivityRepo.Create(&model.UserActivity{
		UserID:       userID,
		ActivityType: model.ActivityChatInteraction,
		Metadata:     datatypes.JSON(activityMeta),
	}); err != nil {
		return nil, err
	}

	return &ChatExchange{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}
