package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Cycle is one complete, independent run.
type Cycle func(ctx context.Context) error

// Scheduler owns the daemon loop: runs a cycle, then waits for the interval.
type Scheduler struct {
	cycle    Cycle
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs cycle every interval.
func NewScheduler(cycle Cycle, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cycle:    cycle,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then one per interval.
// A failing cycle is logged and the loop keeps going. It returns nil when
// ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.cycle(ctx); err != nil {
		s.logger.Error("run failed", "error", err)
		return
	}
	s.logger.Info("run complete", "elapsed", time.Since(start).Round(time.Millisecond), "next_in", s.interval.String())
}
