package summary

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunPeriodic refreshes every vendor summary each interval until ctx is
// done. A non-positive interval disables it.
func RunPeriodic(ctx context.Context, svc Service, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		log.Info("periodic summary refresh disabled")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("periodic summary refresh started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("periodic summary refresh stopped")
			return
		case <-ticker.C:
			if err := svc.RefreshAll(ctx); err != nil && ctx.Err() == nil {
				log.Error("periodic summary refresh failed", zap.Error(err))
			}
		}
	}
}
