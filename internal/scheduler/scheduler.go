package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/couchcryptid/weather-collector/internal/domain"
)

// Runner executes one collection run.
type Runner interface {
	Run(ctx context.Context) (domain.RunSummary, error)
}

// Scheduler triggers collection runs on a fixed interval. Jobs do not
// overlap: gocron's singleton mode skips a tick if the previous run is
// still in flight, which preserves the one-run-at-a-time assumption the
// dataset read-modify-write depends on.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler around a Runner.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic collection job, runs it once immediately,
// and starts the underlying scheduler without blocking. Runs observe ctx
// for cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().StartImmediately().Do(func() {
		if ctx.Err() != nil {
			return
		}
		summary, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Error("collection run cut short", "run_id", summary.RunID, "error", err)
			return
		}
		if summary.FailedCount > 0 {
			s.logger.Warn("collection run had region failures",
				"run_id", summary.RunID, "failed", summary.FailedCount)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule collection job: %w", err)
	}

	s.logger.Info("scheduler started", "interval", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs. A run already in
// progress finishes on its own via context cancellation.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
