package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type expiredHomeworkDeleter interface {
	DeleteDueBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SweeperService deletes homeworks whose due date has passed.
type SweeperService struct {
	repo    expiredHomeworkDeleter
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewSweeperService constructs the sweeper. A nil clock uses time.Now.
func NewSweeperService(repo expiredHomeworkDeleter, cache *CacheService, metrics *MetricsService, logger *zap.Logger, now func() time.Time) *SweeperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &SweeperService{repo: repo, cache: cache, metrics: metrics, logger: logger, now: now}
}

// Sweep removes every homework due strictly before the current time and returns how many were deleted.
func (s *SweeperService) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now()
	deleted, err := s.repo.DeleteDueBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		s.cache.InvalidateHomeworks(ctx)
	}
	s.metrics.RecordExpired(deleted)
	s.logger.Info("expired homeworks removed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return deleted, nil
}
