package app

import (
	"context"
	"time"

	"github.com/benjamingolder/portfolio-dashboard/internal/common"
	"github.com/benjamingolder/portfolio-dashboard/internal/interfaces"
)

// startRefreshScheduler reloads all portfolio files on a fixed interval so
// that newly dropped or updated files are picked up without a restart.
func startRefreshScheduler(ctx context.Context, aggregator interfaces.AggregationService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Refresh scheduler: stopped")
			return
		case <-ticker.C:
			if err := aggregator.LoadAll(ctx); err != nil {
				logger.Warn().Err(err).Msg("Refresh scheduler: reload failed")
			}
		}
	}
}

// StartRefreshScheduler launches the background reload goroutine.
func (a *App) StartRefreshScheduler() {
	interval := a.Config.Data.GetRefreshInterval()
	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	a.refreshCancel = refreshCancel
	a.Logger.Info().
		Dur("interval", interval).
		Msg("Starting refresh scheduler")
	go startRefreshScheduler(refreshCtx, a.Aggregator, a.Logger, interval)
}
