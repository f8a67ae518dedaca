package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds one scheduled pass.
const runTimeout = time.Minute

// Scheduler runs the insurance watch on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers watch on schedule, a six-field cron expression
// (seconds first) evaluated in UTC. An empty schedule registers nothing.
func NewScheduler(schedule string, watch *InsuranceWatch, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	s := &Scheduler{cron: c, logger: logger}

	if schedule == "" {
		logger.Info("insurance watch disabled")
		return s, nil
	}
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := watch.Run(ctx); err != nil {
			logger.Error("insurance watch failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("jobs.NewScheduler: schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("scheduler stopped")
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}
