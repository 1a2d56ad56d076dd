package service

import (
	"context"
	"errors"

	"cadence/internal/cache"
	"cadence/internal/middleware"
	"cadence/internal/models"
	"cadence/internal/repository"
)

// AnalyticsService serves the aggregate read views through a cache-aside
// layer. Mutations on the write side invalidate the keys, so a short TTL is
// only a backstop.
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

func (s *AnalyticsService) UserAnalytics(ctx context.Context, userID uint) (*models.UserAnalytics, error) {
	var out models.UserAnalytics
	err := cache.Aside(ctx, cache.UserAnalyticsKey(userID), &out, cache.UserAnalyticsTTL, func() error {
		fresh, err := s.analyticsRepo.UserAnalytics(ctx, userID)
		if err != nil {
			return err
		}
		out = *fresh
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			// Redis trouble should not take the read path down.
			middleware.Logger.WarnContext(ctx, "User analytics cache bypassed", "error", err.Error())
			return s.analyticsRepo.UserAnalytics(ctx, userID)
		}
		return nil, err
	}
	return &out, nil
}

func (s *AnalyticsService) PostPerformance(ctx context.Context, postID uint) (*models.PostPerformance, error) {
	var out models.PostPerformance
	err := cache.Aside(ctx, cache.PostPerformanceKey(postID), &out, cache.PostPerformanceTTL, func() error {
		fresh, err := s.analyticsRepo.PostPerformance(ctx, postID)
		if err != nil {
			return err
		}
		out = *fresh
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			middleware.Logger.WarnContext(ctx, "Post performance cache bypassed", "error", err.Error())
			return s.analyticsRepo.PostPerformance(ctx, postID)
		}
		return nil, err
	}
	return &out, nil
}
