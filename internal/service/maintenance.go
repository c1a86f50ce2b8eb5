package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/metrics"
)

const (
	categoryRefreshSpec = "0 * * * *"
	sessionSweepSpec    = "*/10 * * * *"
)

// CategoryRefresher reloads the category list.
type CategoryRefresher interface {
	Refresh(ctx context.Context) error
}

// MaintenanceService runs periodic housekeeping jobs.
type MaintenanceService struct {
	categories CategoryRefresher
	sessions   SessionRepository
	idleTTL    time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewMaintenanceService(
	categories CategoryRefresher,
	sessions SessionRepository,
	idleTTL time.Duration,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		categories: categories,
		sessions:   sessions,
		idleTTL:    idleTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Start warms the category cache and then runs the jobs until ctx is done.
func (s *MaintenanceService) Start(ctx context.Context) {
	s.logger.Info("maintenance service started")
	s.refreshCategories(ctx)

	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(categoryRefreshSpec, func() {
		s.refreshCategories(ctx)
	}); err != nil {
		s.logger.Error("failed to add cron job", zap.String("job", "categories"), zap.Error(err))
		return
	}

	if _, err := c.AddFunc(sessionSweepSpec, s.sweepSessions); err != nil {
		s.logger.Error("failed to add cron job", zap.String("job", "sessions"), zap.Error(err))
		return
	}

	c.Start()
	s.logger.Info("cron scheduler started")

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("maintenance service stopped")
}

func (s *MaintenanceService) refreshCategories(ctx context.Context) {
	if err := s.categories.Refresh(ctx); err != nil {
		s.logger.Warn("failed to refresh categories", zap.Error(err))
		return
	}
	s.logger.Debug("categories refreshed")
}

func (s *MaintenanceService) sweepSessions() {
	removed := s.sessions.SweepIdle(s.now(), s.idleTTL)
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	if removed > 0 {
		s.logger.Info("idle sessions removed", zap.Int("count", removed))
	}
}
