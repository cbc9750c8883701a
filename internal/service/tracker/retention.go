package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionSweeper periodically purges execution history past the retention
// window.
type RetentionSweeper struct {
	cron *cron.Cron
}

// NewRetentionSweeper schedules a purge on the given cron spec. Call Start
// to begin sweeping and Stop to drain.
func NewRetentionSweeper(svc *Service, spec string, retention time.Duration, logger *slog.Logger) (*RetentionSweeper, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		purged, err := svc.PurgeOlderThan(ctx, retention)
		if err != nil {
			logger.Error("history retention sweep failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Info("history retention sweep", "purged", purged, "retention", retention)
		}
	})
	if err != nil {
		return nil, err
	}
	return &RetentionSweeper{cron: c}, nil
}

// Start begins the sweep schedule in its own goroutine.
func (r *RetentionSweeper) Start() { r.cron.Start() }

// Stop stops scheduling and waits for a running sweep to finish.
func (r *RetentionSweeper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
