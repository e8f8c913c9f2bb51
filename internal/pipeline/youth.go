package pipeline

import (
	"context"
	"fmt"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/feature"
	"github.com/ymatsuda/clubmatch/pkg/source"
)

// YouthJob sums academy promotions over the anchor season and the seasons
// before it. Promotions are rare events, so a season without a transfer
// page simply contributes zero.
type YouthJob struct {
	store     FeatureStore
	transfers *source.Transfers
	client    *source.Client
	cfg       *config.Config
}

func NewYouthJob(s FeatureStore, transfers *source.Transfers, client *source.Client, cfg *config.Config) *YouthJob {
	return &YouthJob{store: s, transfers: transfers, client: client, cfg: cfg}
}

func (j *YouthJob) Name() string { return "youth_promotion" }

func (j *YouthJob) Run(ctx context.Context) error {
	anchor := j.cfg.Pipeline.AnchorSeason()

	var seasons []feature.SeasonTable
	for year := anchor; year > anchor-j.cfg.Scoring.SeasonsBack-1; year-- {
		table := feature.SeasonTable{Season: year}
		for _, division := range j.cfg.Pipeline.Divisions {
			rows, err := j.transfers.Fetch(ctx, division, year)
			if err != nil {
				return fmt.Errorf("fetch transfers j%d %d: %w", division, year, err)
			}
			j.client.Pace(ctx)

			for _, r := range rows {
				// Emblem badge ids outlive club renames; they are the only
				// key the transfer pages share across seasons.
				key := r.BadgeID
				if key == "" {
					key = store.NormalizeKey(r.ClubName)
				}
				table.Rows = append(table.Rows, feature.MetricRow{
					ClubKey:  key,
					ClubName: r.ClubName,
					Value:    float64(r.Promotions),
				})
			}
		}
		if len(table.Rows) == 0 {
			if year == anchor {
				return fmt.Errorf("no transfer data for anchor season %d", anchor)
			}
			continue
		}
		seasons = append(seasons, table)
	}

	var updates []clubUpdate
	for _, agg := range feature.ReduceSeasons(seasons, feature.ReduceSum) {
		updates = append(updates, clubUpdate{
			key:   store.NormalizeKey(agg.ClubName),
			name:  agg.ClubName,
			feats: map[string]float64{"youth_promotion_score": agg.Value},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
