package aggregation

import (
	"context"
	"log/slog"
	"time"

	"github.com/aevon-lab/purchase-totals/internal/core/aggregation"
)

// Scheduler re-runs every configured job on a fixed interval.
// Each run is a full recompute, so a failed tick is simply retried on the next one.
type Scheduler struct {
	interval     time.Duration
	startupDelay time.Duration
	runner       *Runner
	jobs         []aggregation.JobDefinition
}

// NewScheduler creates a scheduler over jobs. startupDelay postpones the first pass,
// e.g. to let an upstream loader finish writing the input dataset.
func NewScheduler(
	interval time.Duration,
	startupDelay time.Duration,
	runner *Runner,
	jobs []aggregation.JobDefinition,
) *Scheduler {
	return &Scheduler{
		interval:     interval,
		startupDelay: startupDelay,
		runner:       runner,
		jobs:         jobs,
	}
}

// Start runs all jobs once, then again on every tick, until ctx is cancelled.
// A run interrupted by cancellation is marked Failed and its totals are discarded.
func (s *Scheduler) Start(ctx context.Context) error {
	slog.Info("[Scheduler] Starting aggregation scheduler",
		"interval", s.interval,
		"startup_delay", s.startupDelay,
		"jobs", len(s.jobs),
	)

	if s.startupDelay > 0 {
		timer := time.NewTimer(s.startupDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			slog.Info("[Scheduler] Stopping before first pass (context cancelled)")
			return nil
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runPass(ctx)

	for {
		select {
		case <-ticker.C:
			s.runPass(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

// runPass runs every job once. Ticks that arrive during a pass are dropped by the ticker,
// so passes never overlap.
func (s *Scheduler) runPass(ctx context.Context) {
	started := time.Now()
	failed := 0

	for _, job := range s.jobs {
		if ctx.Err() != nil {
			slog.Info("[Scheduler] Pass interrupted by context cancellation", "job", job.Name)
			return
		}
		run, err := s.runner.Run(ctx, job)
		if err != nil {
			failed++
			slog.Error("[Scheduler] Job failed, will retry next tick",
				"job", job.Name,
				"run_id", run.ID,
				"error", err)
		}
	}

	slog.Info("[Scheduler] Pass complete",
		"jobs", len(s.jobs),
		"failed", failed,
		"duration", time.Since(started))
}
