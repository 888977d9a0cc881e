// Package scheduler keeps the snapshot cache warm while the server runs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/health"
)

const healthComponent = "warmer"

// Refresher runs a round and stores the result.
type Refresher interface {
	Refresh(ctx context.Context, category string) dashboard.Snapshot
}

// Warmer periodically refreshes the cached snapshot.
type Warmer struct {
	scheduler  *gocron.Scheduler
	refresher  Refresher
	health     *health.Health
	category   string
	interval   time.Duration
	runOnStart bool
}

// Config holds warmer configuration.
type Config struct {
	Refresher Refresher
	Health    *health.Health
	Category  string
	// Interval between refreshes. Zero or negative disables the warmer.
	Interval time.Duration
	// RunOnStart refreshes immediately instead of waiting one interval.
	RunOnStart bool
}

// New creates a new warmer.
func New(cfg Config) *Warmer {
	return &Warmer{
		scheduler:  gocron.NewScheduler(time.UTC),
		refresher:  cfg.Refresher,
		health:     cfg.Health,
		category:   cfg.Category,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
	}
}

// Enabled reports whether a positive interval was configured.
func (w *Warmer) Enabled() bool {
	return w.interval > 0
}

// Start schedules the refresh job and starts the underlying scheduler.
func (w *Warmer) Start() error {
	if !w.Enabled() {
		slog.Debug("cache warmer disabled")
		return nil
	}

	job := w.scheduler.Every(w.interval).SingletonMode()
	if !w.runOnStart {
		job = job.WaitForSchedule()
	}
	if _, err := job.Do(w.RunOnce, context.Background()); err != nil {
		return fmt.Errorf("schedule cache refresh: %w", err)
	}

	w.scheduler.StartAsync()
	slog.Info("cache warmer started", "interval", w.interval, "category", w.category)
	return nil
}

// RunOnce refreshes the cache a single time.
func (w *Warmer) RunOnce(ctx context.Context) {
	start := time.Now()
	snap := w.refresher.Refresh(ctx, w.category)
	elapsed := time.Since(start)

	unavailable := snap.Unavailable()
	if w.health != nil {
		if len(unavailable) == len(dashboard.Slots) {
			w.health.SetUnhealthy(healthComponent, elapsed, fmt.Errorf("all %d slots unavailable", len(unavailable)))
		} else {
			w.health.SetHealthy(healthComponent, elapsed)
		}
	}

	slog.Info("cache refreshed",
		"category", snap.Category,
		"duration", elapsed,
		"unavailable", len(unavailable),
	)
}

// Stop stops the scheduler and cancels any future jobs.
func (w *Warmer) Stop() {
	if w.scheduler.IsRunning() {
		w.scheduler.Stop()
	}
}
