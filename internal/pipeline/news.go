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

// SupporterHeatJob measures how lively each club's official news feed is
// and rescales the counts across the league. A club publishing daily match
// reports and fan events reads as a hotter support scene than one posting
// a monthly notice.
type SupporterHeatJob struct {
	store FeatureStore
	news  *source.ClubNews
	cfg   *config.Config
}

func NewSupporterHeatJob(s FeatureStore, news *source.ClubNews, cfg *config.Config) *SupporterHeatJob {
	return &SupporterHeatJob{store: s, news: news, cfg: cfg}
}

func (j *SupporterHeatJob) Name() string { return "supporter_heat" }

func (j *SupporterHeatJob) Run(ctx context.Context) error {
	feeds, err := LoadFeeds(j.cfg.Pipeline.SettingsDir)
	if err != nil {
		return err
	}

	var rows []feature.Row
	for _, f := range feeds {
		if f.FeedURL == "" {
			continue
		}
		count, err := j.news.Activity(ctx, f.FeedURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %s: %v, skipped\n", j.Name(), f.ClubName, err)
			continue
		}
		rows = append(rows, feature.Row{
			ClubKey:  store.NormalizeKey(f.ClubName),
			ClubName: f.ClubName,
			Cols:     map[string]float64{"activity": float64(count)},
		})
	}
	if len(rows) == 0 {
		return fmt.Errorf("no feed activity fetched")
	}

	feature.Normalize(rows, []feature.ColumnSpec{{Name: "activity"}})

	var updates []clubUpdate
	for _, row := range rows {
		heat, _ := row.Value("activity" + feature.NormSuffix)
		updates = append(updates, clubUpdate{
			key:   row.ClubKey,
			name:  row.ClubName,
			feats: map[string]float64{"supporter_heat": heat},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
