package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"
	"learnpack_backend/pkg/logger"
	"learnpack_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recommendCacheTTL = 5 * time.Minute

type RecommendationService struct {
	PackRepo     *repository.PackRepository
	ActivityRepo *repository.ActivityRepository
	ProgressRepo *repository.ProgressRepository
	AI           AIClient
	Redis        *redis.Client
}

func NewRecommendationService(
	packRepo *repository.PackRepository,
	activityRepo *repository.ActivityRepository,
	progressRepo *repository.ProgressRepository,
	ai AIClient,
	rdb *redis.Client,
) *RecommendationService {
	return &RecommendationService{
		PackRepo:     packRepo,
		ActivityRepo: activityRepo,
		ProgressRepo: progressRepo,
		AI:           ai,
		Redis:        rdb,
	}
}

// RecommendPacks 两级启发式：有完成历史时按分类命中并排除已完成，
// 否则退回全局评分榜。纯读查询，结果短暂缓存。
func (s *RecommendationService) RecommendPacks(ctx context.Context, userID string, limit int) ([]model.LearningPack, error) {
	if limit <= 0 {
		limit = 5
	}

	cacheKey := fmt.Sprintf("recommend:packs:%s:%d", userID, limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var packs []model.LearningPack
			if json.Unmarshal([]byte(cached), &packs) == nil {
				return packs, nil
			}
		}
	}

	packs, err := s.recommendPacks(userID, limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(packs); err == nil {
			s.Redis.Set(ctx, cacheKey, data, recommendCacheTTL)
		}
	}
	return packs, nil
}

func (s *RecommendationService) recommendPacks(userID string, limit int) ([]model.LearningPack, error) {
	completedIDs, err := s.ActivityRepo.CompletedPackIDs(userID)
	if err != nil {
		return nil, err
	}

	// 冷启动：没有完成记录时给全局高分包
	if len(completedIDs) == 0 {
		return s.PackRepo.TopRated(limit)
	}

	categories, err := s.PackRepo.CategoriesByIDs(completedIDs)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return s.PackRepo.TopRated(limit)
	}

	return s.PackRepo.ByCategoriesExcluding(categories, completedIDs, limit)
}

// Invalidate 学习包完成后推荐集合会变化，清掉该用户的缓存
func (s *RecommendationService) Invalidate(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	keys, err := s.Redis.Keys(ctx, fmt.Sprintf("recommend:packs:%s:*", userID)).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	s.Redis.Del(ctx, keys...)
}

// RecommendationsPayload 两份推荐并排返回，互不去重（保持来源行为）
type RecommendationsPayload struct {
	AIRecommendations []AIRecommendation   `json:"aiRecommendations"`
	RecommendedPacks  []model.LearningPack `json:"recommendedPacks"`
	UserActivities    []model.UserActivity `json:"userActivities"`
}

// BuildRecommendations 聚合推荐页数据：启发式列表 + 模型生成列表。
// 模型失败降级为空列表，启发式结果照常返回。
func (s *RecommendationService) BuildRecommendations(ctx context.Context, userID string) (*RecommendationsPayload, error) {
	var (
		activities []model.UserActivity
		recent     []model.UserProgress
		packs      []model.LearningPack
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		activities, err = s.ActivityRepo.ListByUser(userID, 20)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.ProgressRepo.RecentWithPack(userID, 10)
		return err
	})
	g.Go(func() error {
		var err error
		packs, err = s.RecommendPacks(ctx, userID, 10)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recentPacks := make([]model.LearningPack, 0, len(recent))
	for _, row := range recent {
		if row.Pack != nil {
			recentPacks = append(recentPacks, *row.Pack)
		}
	}

	aiRecs, err := s.AI.GenerateRecommendations(ctx, activities, recentPacks)
	if err != nil {
		logger.Log.Warn("AI recommendations failed, returning empty list", zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("recommendations", "fallback").Inc()
		aiRecs = []AIRecommendation{}
	} else {
		monitoring.AIRequestCounter.WithLabelValues("recommendations", "ok").Inc()
	}

	if len(activities) > 5 {
		activities = activities[:5]
	}

	return &RecommendationsPayload{
		AIRecommendations: aiRecs,
		RecommendedPacks:  packs,
		UserActivities:    activities,
	}, nil
}
