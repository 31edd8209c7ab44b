package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ikkim/digimart-backend/internal/app/model"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/pkg/logger"
)

type AnalyticsService interface {
	// RecordProductView adds one view to every tag of the product for the user.
	RecordProductView(userID uint, product *model.Product) error
	PopularTags(limit int) ([]model.TagViewTotal, error)
	RefreshPopularTags(ctx context.Context) error
	LastRefresh() time.Time
}

type analyticsService struct {
	tagViewRepo   repository.TagViewRepository
	snapshotLimit int

	mu          sync.RWMutex
	popular     []model.TagViewTotal
	refreshedAt time.Time
}

func NewAnalyticsService(tagViewRepo repository.TagViewRepository, snapshotLimit int) AnalyticsService {
	if snapshotLimit <= 0 {
		snapshotLimit = 20
	}
	return &analyticsService{
		tagViewRepo:   tagViewRepo,
		snapshotLimit: snapshotLimit,
	}
}

func (s *analyticsService) RecordProductView(userID uint, product *model.Product) error {
	if userID == 0 || product == nil {
		return nil
	}

	var errs []error
	for _, tag := range product.Tags {
		if err := s.tagViewRepo.AddCount(userID, tag.ID); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		logger.Warn("Some tag views were not recorded", map[string]interface{}{
			"user_id":    userID,
			"product_id": product.ID,
			"failed":     len(errs),
		})
		return errors.Join(errs...)
	}
	return nil
}

// PopularTags serves from the snapshot, loading it on first use.
func (s *analyticsService) PopularTags(limit int) ([]model.TagViewTotal, error) {
	s.mu.RLock()
	loaded := !s.refreshedAt.IsZero()
	s.mu.RUnlock()

	if !loaded {
		if err := s.RefreshPopularTags(context.Background()); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.popular) {
		limit = len(s.popular)
	}
	result := make([]model.TagViewTotal, limit)
	copy(result, s.popular[:limit])
	return result, nil
}

func (s *analyticsService) RefreshPopularTags(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	totals, err := s.tagViewRepo.TopTags(s.snapshotLimit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.popular = totals
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	logger.Debug("Popular tag snapshot refreshed", map[string]interface{}{
		"tags": len(totals),
	})
	return nil
}

func (s *analyticsService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
