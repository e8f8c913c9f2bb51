package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/pkg/feature"
)

// TicketsJob estimates how easy a home ticket is to get from stadium
// capacity and typical attendance. It reads only the database, so it runs
// after the attendance job.
type TicketsJob struct {
	store FeatureStore
	cfg   *config.Config
}

func NewTicketsJob(s FeatureStore, cfg *config.Config) *TicketsJob {
	return &TicketsJob{store: s, cfg: cfg}
}

func (j *TicketsJob) Name() string { return "tickets" }

func (j *TicketsJob) Run(ctx context.Context) error {
	facts, err := j.store.ListClubFacts(ctx)
	if err != nil {
		return fmt.Errorf("list clubs: %w", err)
	}

	var updates []clubUpdate
	for _, f := range facts {
		availability, ok := feature.EstimateTicketAvailability(f.StadiumCapacity, f.HomeAttendance, j.cfg.Scoring.NoShowTiers)
		if !ok {
			fmt.Fprintf(os.Stderr, "  %s: %s missing capacity or attendance, skipped\n", j.Name(), f.Name)
			continue
		}
		updates = append(updates, clubUpdate{
			key:   f.NameKey,
			name:  f.Name,
			feats: map[string]float64{"ticket_availability": availability},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
