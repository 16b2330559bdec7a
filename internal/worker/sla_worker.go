package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fitops/studio-support/internal/service"
)

// StartSLAWorker runs the SLA sweep on a fixed interval until ctx is
// cancelled. One sweep runs immediately at startup.
func StartSLAWorker(ctx context.Context, slaService *service.SLAService, interval time.Duration, logger *zap.Logger) {
	if slaService == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sweep := func() {
			if err := slaService.Sweep(ctx); err != nil {
				logger.Error("sla sweep failed", zap.Error(err))
			}
		}

		sweep()
		for {
			select {
			case <-ctx.Done():
				logger.Info("sla worker stopped")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
