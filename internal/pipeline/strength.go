package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/feature"
	"github.com/ymatsuda/clubmatch/pkg/source"
)

// LongTermStrengthJob averages per-season placement scores over the anchor
// season and the configured number of seasons before it.
type LongTermStrengthJob struct {
	store     FeatureStore
	standings *source.Standings
	client    *source.Client
	cfg       *config.Config
}

func NewLongTermStrengthJob(s FeatureStore, standings *source.Standings, client *source.Client, cfg *config.Config) *LongTermStrengthJob {
	return &LongTermStrengthJob{store: s, standings: standings, client: client, cfg: cfg}
}

func (j *LongTermStrengthJob) Name() string { return "strength_long" }

func (j *LongTermStrengthJob) Run(ctx context.Context) error {
	anchor := j.cfg.Pipeline.AnchorSeason()

	var seasons []feature.SeasonTable
	for year := anchor; year > anchor-j.cfg.Scoring.SeasonsBack-1; year-- {
		table, err := j.collectSeason(ctx, year)
		if err != nil {
			return err
		}
		if len(table.Rows) == 0 {
			fmt.Fprintf(os.Stderr, "  %s: no standings for %d\n", j.Name(), year)
			if year == anchor {
				return fmt.Errorf("no standings for anchor season %d", anchor)
			}
			continue
		}
		seasons = append(seasons, table)
	}

	var updates []clubUpdate
	for _, agg := range feature.ReduceSeasons(seasons, feature.ReduceMean) {
		if !agg.OK {
			fmt.Fprintf(os.Stderr, "  %s: %s has no season data, skipped\n", j.Name(), agg.ClubName)
			continue
		}
		updates = append(updates, clubUpdate{
			key:   agg.ClubKey,
			name:  agg.ClubName,
			feats: map[string]float64{"strength_long_term": agg.Value},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}

// collectSeason builds one season's placement scores across all divisions.
// Short names are the cross-season join key; full names drift when clubs
// rebrand.
func (j *LongTermStrengthJob) collectSeason(ctx context.Context, year int) (feature.SeasonTable, error) {
	table := feature.SeasonTable{Season: year}
	for _, division := range j.cfg.Pipeline.Divisions {
		rows, err := j.standings.Fetch(ctx, division, year)
		if err != nil {
			return table, fmt.Errorf("fetch standings j%d %d: %w", division, year, err)
		}
		j.client.Pace(ctx)
		if len(rows) == 0 {
			continue
		}

		params, ok := j.cfg.Scoring.DivisionParams[division]
		if !ok {
			return table, fmt.Errorf("no division params for j%d", division)
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, feature.MetricRow{
				ClubKey:  store.NormalizeKey(r.ShortName),
				ClubName: r.ClubName,
				Value:    placementScore(r.Standing, len(rows), params),
			})
		}
	}
	return table, nil
}

// placementScore maps a final placement to a cross-division score. The
// division base lifts higher divisions; beta spreads placements within one
// so the bottom of a division meets the top of the one below smoothly.
func placementScore(standing, totalClubs int, params config.DivisionParams) float64 {
	normalized := 1.0
	if totalClubs > 1 {
		normalized = 1 - float64(standing-1)/float64(totalClubs-1)
	}
	return feature.Round3(params.Base + params.Beta*normalized)
}

// ShortTermStrengthJob scores recent form as points won over the points
// available in the last few matches.
type ShortTermStrengthJob struct {
	store  FeatureStore
	form   *source.RecentForm
	client *source.Client
	cfg    *config.Config
}

func NewShortTermStrengthJob(s FeatureStore, form *source.RecentForm, client *source.Client, cfg *config.Config) *ShortTermStrengthJob {
	return &ShortTermStrengthJob{store: s, form: form, client: client, cfg: cfg}
}

func (j *ShortTermStrengthJob) Name() string { return "strength_short" }

func (j *ShortTermStrengthJob) Run(ctx context.Context) error {
	var updates []clubUpdate
	for _, division := range j.cfg.Pipeline.Divisions {
		rows, err := j.form.Fetch(ctx, division)
		if err != nil {
			return fmt.Errorf("fetch recent form j%d: %w", division, err)
		}
		j.client.Pace(ctx)

		for _, r := range rows {
			points := r.Points
			if max := j.cfg.Scoring.RecentMatches; max > 0 && len(points) > max {
				points = points[len(points)-max:]
			}
			if len(points) == 0 {
				fmt.Fprintf(os.Stderr, "  %s: %s has no played matches, skipped\n", j.Name(), r.ClubName)
				continue
			}

			sum := 0
			for _, p := range points {
				sum += p
			}
			score := feature.Round3(float64(sum) / float64(len(points)*3))
			updates = append(updates, clubUpdate{
				key:   store.NormalizeKey(r.ClubName),
				name:  r.ClubName,
				feats: map[string]float64{"strength_short_term": score},
			})
		}
	}
	if len(updates) == 0 {
		return fmt.Errorf("no recent form data")
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
