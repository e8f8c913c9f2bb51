// Package scheduler drives periodic runs of the feature pipeline.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ymatsuda/clubmatch/internal/pipeline"
	"github.com/ymatsuda/clubmatch/pkg/alert"
)

// Scheduler runs the feature jobs on a fixed cadence. Sources update at
// most daily, so the interval is long by service standards.
type Scheduler struct {
	runner   *pipeline.Runner
	alertMgr *alert.Manager
	jobs     []string // empty = every registered job
	interval time.Duration
}

// New creates a new scheduler.
func New(runner *pipeline.Runner, alertMgr *alert.Manager, jobs []string, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{runner: runner, alertMgr: alertMgr, jobs: jobs, interval: interval}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial collection...")
	s.collect(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (collect every %s)\n", s.interval)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: collecting...")
			s.collect(ctx)
		}
	}
}

func (s *Scheduler) collect(ctx context.Context) {
	start := time.Now()
	err := s.runner.Run(ctx, s.jobs...)
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "scheduler: collection incomplete: %v\n", err)

	if ctx.Err() != nil || !s.alertMgr.HasNotifiers() {
		return
	}

	notification := &alert.Notification{
		Title:    "clubmatch pipeline run incomplete",
		Body:     err.Error(),
		Duration: time.Since(start),
	}
	var runErr *pipeline.RunError
	if errors.As(err, &runErr) {
		notification.FailedJobs = runErr.Failed
	}

	if err := s.alertMgr.Broadcast(ctx, notification); err != nil {
		fmt.Fprintf(os.Stderr, "scheduler: alert error: %v\n", err)
	}
}
