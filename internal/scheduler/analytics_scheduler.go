package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/digimart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// PopularTagRefresher rebuilds the popular tag snapshot.
type PopularTagRefresher interface {
	RefreshPopularTags(ctx context.Context) error
}

// AnalyticsScheduler 인기 태그 집계 주기 갱신 스케줄러
type AnalyticsScheduler struct {
	cron      *cron.Cron
	refresher PopularTagRefresher
	spec      string
}

// NewAnalyticsScheduler 스케줄러 생성. spec은 robfig/cron 표현식 ("@every 10m" 등)
func NewAnalyticsScheduler(refresher PopularTagRefresher, spec string) *AnalyticsScheduler {
	return &AnalyticsScheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      spec,
	}
}

// Start 스케줄러 시작
func (s *AnalyticsScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		logger.Error("Failed to add cron job for popular tag refresh", err, map[string]interface{}{
			"schedule": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Analytics scheduler started", map[string]interface{}{
		"schedule": s.spec,
	})
	return nil
}

func (s *AnalyticsScheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.refresher.RefreshPopularTags(ctx); err != nil {
		logger.Error("Failed to refresh popular tags from scheduler", err)
		return
	}
	logger.Debug("Popular tags refreshed from scheduler", nil)
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다
func (s *AnalyticsScheduler) Stop() {
	logger.Info("Stopping analytics scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Analytics scheduler stopped", nil)
}
