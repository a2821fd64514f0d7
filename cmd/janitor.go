package cmd

import (
	"context"
	"time"

	"heart-predict/internal/data/repository"

	"go.uber.org/zap"
)

// SessionJanitor periodically purges long-expired sessions until ctx ends.
func SessionJanitor(ctx context.Context, sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.CleanExpiredSessions(ctx); err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
			}
		}
	}
}
