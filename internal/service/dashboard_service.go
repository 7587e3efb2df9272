package service

import (
	"context"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	ProgressService *ProgressService
	Recommendations *RecommendationService
	ProgressRepo    *repository.ProgressRepository
}

func NewDashboardService(
	progressService *ProgressService,
	recommendations *RecommendationService,
	progressRepo *repository.ProgressRepository,
) *DashboardService {
	return &DashboardService{
		ProgressService: progressService,
		Recommendations: recommendations,
		ProgressRepo:    progressRepo,
	}
}

type Dashboard struct {
	CurrentLearning  *model.UserProgress  `json:"currentLearning"`
	RecommendedPacks []model.LearningPack `json:"recommendedPacks"`
	RecentActivities []model.UserProgress `json:"recentActivities"`
}

// GetUserDashboard 三路并发读后聚合，各路之间没有顺序依赖
func (s *DashboardService) GetUserDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	dashboard := &Dashboard{}

	var g errgroup.Group
	g.Go(func() error {
		current, err := s.ProgressService.CurrentLearning(userID)
		if err != nil {
			return err
		}
		dashboard.CurrentLearning = current
		return nil
	})
	g.Go(func() error {
		packs, err := s.Recommendations.RecommendPacks(ctx, userID, 5)
		if err != nil {
			return err
		}
		dashboard.RecommendedPacks = packs
		return nil
	})
	g.Go(func() error {
		recent, err := s.ProgressRepo.RecentWithPack(userID, 5)
		if err != nil {
			return err
		}
		dashboard.RecentActivities = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}
