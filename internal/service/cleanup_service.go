package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/qq3pta/coffee-shop-api/internal/repository"
)

// CleanupService sweeps out accounts that never verified within the retention
// window. Each run is independent and idempotent: a run with nothing to delete
// is a no-op, and a failed run is simply retried by the next scheduled one.
type CleanupService struct {
	repo      repository.UserRepositoryInterface
	retention time.Duration
	logger    *slog.Logger
}

func NewCleanupService(repo repository.UserRepositoryInterface, retention time.Duration, logger *slog.Logger) *CleanupService {
	return &CleanupService{repo: repo, retention: retention, logger: logger}
}

func (s *CleanupService) PurgeUnverified(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.repo.DeleteStaleUnverified(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "unverified account sweep failed", "cutoff", cutoff, "error", err)
		return 0, err
	}
	s.logger.InfoContext(ctx, "unverified account sweep completed", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}
