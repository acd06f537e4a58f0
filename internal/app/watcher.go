package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
)

// watcher re-evaluates the stored position sheet on a cron schedule so that
// activation alerts fire without anyone hitting the API.
type watcher struct {
	cron   *cron.Cron
	logger *common.Logger
}

// StartWatcher launches the background evaluation job when watch mode is
// enabled in config. Safe to call unconditionally.
func (a *App) StartWatcher() error {
	if !a.Config.Watch.Enabled {
		a.Logger.Debug().Msg("Watch mode disabled")
		return nil
	}

	w := &watcher{
		cron:   cron.New(),
		logger: a.Logger,
	}

	schedule := a.Config.Watch.Schedule
	if _, err := w.cron.AddFunc(schedule, func() {
		runWatchedEvaluation(a.PortfolioService, a.Logger)
	}); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}

	w.cron.Start()
	a.watcher = w
	a.Logger.Info().Str("schedule", schedule).Msg("Watch mode started")
	return nil
}

// Stop halts the cron scheduler and waits for a running job to finish.
func (w *watcher) Stop() {
	ctx := w.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		w.logger.Warn().Msg("Watch job did not finish before shutdown deadline")
	}
}

// runWatchedEvaluation runs one evaluation pass over the stored sheet.
// A missing sheet is expected before the first upload and only logged.
func runWatchedEvaluation(svc interfaces.PortfolioService, logger *common.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := svc.EvaluateStored(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Watched evaluation skipped")
		return
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("newly_activated", len(summary.NewlyActivated)).
		Float64("active_alloc", summary.ActiveAllocPct).
		Msg("Watched evaluation complete")
}
