// Package pipeline runs the offline feature jobs: each job fetches raw
// club metrics, reduces them to one feature value per club, and writes the
// result into the clubs table. Jobs are independent; one failing never
// stops the others.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ymatsuda/clubmatch/internal/store"
)

// FeatureStore is the slice of store.Store the jobs need.
type FeatureStore interface {
	ListClubFacts(ctx context.Context) ([]store.ClubFacts, error)
	UpdateClubFeatures(ctx context.Context, clubKey string, feats map[string]float64) (bool, error)
}

// Job computes one feature (or one tightly coupled pair) for every club.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunError reports which jobs of a run failed.
type RunError struct {
	Failed []string
	Total  int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%d of %d jobs failed", len(e.Failed), e.Total)
}

// Runner executes jobs in registration order with per-job failure
// isolation.
type Runner struct {
	jobs []Job
}

// NewRunner creates a runner over the given jobs.
func NewRunner(jobs ...Job) *Runner {
	return &Runner{jobs: jobs}
}

// Names returns the registered job names in run order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Name()
	}
	return names
}

// Run executes the named jobs, or every registered job when names is
// empty. A failing job is logged and counted; the remaining jobs still
// run. The returned error summarizes failures, so a partial run is visible
// to callers without losing the successful updates.
func (r *Runner) Run(ctx context.Context, names ...string) error {
	selected, err := r.selectJobs(names)
	if err != nil {
		return err
	}

	var failed []string
	for _, job := range selected {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(os.Stderr, "pipeline: running %s...\n", job.Name())
		if err := job.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", job.Name(), err)
			failed = append(failed, job.Name())
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s: done\n", job.Name())
	}

	if len(failed) > 0 {
		return &RunError{Failed: failed, Total: len(selected)}
	}
	return nil
}

func (r *Runner) selectJobs(names []string) ([]Job, error) {
	if len(names) == 0 {
		return r.jobs, nil
	}

	byName := make(map[string]Job, len(r.jobs))
	for _, j := range r.jobs {
		byName[j.Name()] = j
	}

	selected := make([]Job, 0, len(names))
	for _, name := range names {
		job, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		selected = append(selected, job)
	}
	return selected, nil
}

// applyUpdates writes per-club feature values, logging clubs the roster
// does not know instead of failing the whole job over them.
func applyUpdates(ctx context.Context, s FeatureStore, jobName string, updates []clubUpdate) error {
	matched := 0
	for _, u := range updates {
		ok, err := s.UpdateClubFeatures(ctx, u.key, u.feats)
		if err != nil {
			return fmt.Errorf("update %s: %w", u.name, err)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "  %s: no club matches %q, skipped\n", jobName, u.name)
			continue
		}
		matched++
	}
	fmt.Fprintf(os.Stderr, "  %s: %d clubs updated\n", jobName, matched)
	return nil
}

// clubUpdate is one club's pending feature write. key is the normalized
// join key; name is kept for log messages only.
type clubUpdate struct {
	key   string
	name  string
	feats map[string]float64
}
