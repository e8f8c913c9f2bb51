package pipeline

import (
	"context"
	"fmt"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/pkg/feature"
)

// TitlesJob compiles weighted title counts into the two title scores and
// rescales them across the league. It reads only the database; titles are
// maintained by hand in the seed data.
type TitlesJob struct {
	store FeatureStore
	cfg   *config.Config
}

func NewTitlesJob(s FeatureStore, cfg *config.Config) *TitlesJob {
	return &TitlesJob{store: s, cfg: cfg}
}

func (j *TitlesJob) Name() string { return "titles" }

func (j *TitlesJob) Run(ctx context.Context) error {
	facts, err := j.store.ListClubFacts(ctx)
	if err != nil {
		return fmt.Errorf("list clubs: %w", err)
	}
	if len(facts) == 0 {
		return fmt.Errorf("no clubs seeded")
	}

	rows := make([]feature.Row, 0, len(facts))
	for _, f := range facts {
		titles := f.TitleRow()
		rows = append(rows, feature.Row{
			ClubKey:  f.NameKey,
			ClubName: f.Name,
			Cols: map[string]float64{
				"domestic_titles":      feature.CompileRaw(titles, j.cfg.Scoring.DomesticTitles),
				"international_titles": feature.CompileRaw(titles, j.cfg.Scoring.InternationalTitles),
			},
		})
	}

	// A club with every trophy and one with none should land at 1 and 0;
	// the raw weighted counts only mean something relative to the league.
	feature.Normalize(rows, []feature.ColumnSpec{
		{Name: "domestic_titles"},
		{Name: "international_titles"},
	})

	var updates []clubUpdate
	for _, row := range rows {
		domestic, _ := row.Value("domestic_titles" + feature.NormSuffix)
		international, _ := row.Value("international_titles" + feature.NormSuffix)
		updates = append(updates, clubUpdate{
			key:  row.ClubKey,
			name: row.ClubName,
			feats: map[string]float64{
				"domestic_titles":      domestic,
				"international_titles": international,
			},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
