package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/cache"
	"github.com/stitts-dev/prop-edge/internal/history"
	"github.com/stitts-dev/prop-edge/internal/logger"
)

// Refresher is the external scheduling driver for the pull-based core: on
// a cron schedule it force-refreshes cached stats for every tracked line
// and purges cache entries past the retention window. The core components
// expose no internal timers.
type Refresher struct {
	evaluator *Evaluator
	tracker   *history.Tracker
	cache     *cache.TTLCache
	logger    *logrus.Logger
	schedule  string
	cron      *cron.Cron

	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastError error
}

// NewRefresher creates a refresher on the given cron schedule.
func NewRefresher(
	evaluator *Evaluator,
	tracker *history.Tracker,
	c *cache.TTLCache,
	schedule string,
	logger *logrus.Logger,
) *Refresher {
	return &Refresher{
		evaluator: evaluator,
		tracker:   tracker,
		cache:     c,
		logger:    logger,
		schedule:  schedule,
		cron:      cron.New(cron.WithLogger(cron.VerbosePrintfLogger(logger))),
	}
}

// Start schedules the refresh job and starts the cron loop.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			r.logger.WithError(err).Error("Scheduled board refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling board refresh: %w", err)
	}

	r.cron.Start()
	r.isRunning = true
	r.logger.WithField("schedule", r.schedule).Info("Board refresher started")
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish. The wait
// happens outside the mutex: a running job ends in recordRun, which needs
// the same lock.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	stopCtx := r.cron.Stop()
	r.mu.Unlock()

	<-stopCtx.Done()

	r.mu.Lock()
	r.isRunning = false
	r.mu.Unlock()
	r.logger.Info("Board refresher stopped")
}

// RunOnce walks every tracked line, force-refreshing its stats and logging
// per-prop failures without aborting the pass, then purges the cache.
func (r *Refresher) RunOnce(ctx context.Context) error {
	started := time.Now()

	lines, err := r.tracker.CurrentLines(ctx)
	if err != nil {
		r.recordRun(err)
		return err
	}

	refreshed, failed := 0, 0
	for _, line := range lines {
		if _, err := r.evaluator.RefreshProp(ctx, line.PlayerID, line.StatType, line.Value); err != nil {
			failed++
			logger.WithProp(r.logger, line.PlayerID, line.StatType).
				WithError(err).Warn("Prop refresh failed")
			continue
		}
		refreshed++
	}

	purged, err := r.cache.Purge(ctx)
	if err != nil {
		r.recordRun(err)
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"refreshed": refreshed,
		"failed":    failed,
		"purged":    purged,
		"duration":  time.Since(started).String(),
	}).Info("Board refresh completed")

	r.recordRun(nil)
	return nil
}

// RunStatus is a snapshot of the refresher's state and last run outcome.
type RunStatus struct {
	LastRun   time.Time
	LastError error
	Running   bool
}

// Status reports the refresher's current state.
func (r *Refresher) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RunStatus{
		LastRun:   r.lastRun,
		LastError: r.lastError,
		Running:   r.isRunning,
	}
}

func (r *Refresher) recordRun(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRun = time.Now()
	r.lastError = err
}
