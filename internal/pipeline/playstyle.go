package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/feature"
	"github.com/ymatsuda/clubmatch/pkg/source"
)

// statMetrics are the per-metric ranking pages feeding the play style
// scores, in fetch order.
var statMetrics = []string{
	"ball_rate",
	"shots",
	"goals_scored",
	"chances_created",
	"shots_conceded",
	"goals_conceded",
	"blocks",
}

// PlayStyleJob compiles the attack and defense style scores from the
// current season's stat rankings and the analytics site's ratings.
type PlayStyleJob struct {
	store   FeatureStore
	stats   *source.StatRankings
	ratings *source.Ratings
	client  *source.Client
	cfg     *config.Config
}

func NewPlayStyleJob(s FeatureStore, stats *source.StatRankings, ratings *source.Ratings, client *source.Client, cfg *config.Config) *PlayStyleJob {
	return &PlayStyleJob{store: s, stats: stats, ratings: ratings, client: client, cfg: cfg}
}

func (j *PlayStyleJob) Name() string { return "play_style" }

func (j *PlayStyleJob) Run(ctx context.Context) error {
	year := j.cfg.Pipeline.AnchorSeason()

	var rows []feature.Row
	for _, division := range j.cfg.Pipeline.Divisions {
		divRows, err := j.collectDivision(ctx, division, year)
		if err != nil {
			return err
		}
		rows = append(rows, divRows...)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no play style data for season %d", year)
	}

	// Normalization spans all divisions at once, so the scores express
	// style relative to the whole league, not to division peers.
	feature.Normalize(rows, j.columnSpecs())

	var updates []clubUpdate
	for _, row := range rows {
		updates = append(updates, clubUpdate{
			key:  row.ClubKey,
			name: row.ClubName,
			feats: map[string]float64{
				"play_style_attack":  feature.Compile(row, j.cfg.Scoring.AttackWeights),
				"play_style_defense": feature.Compile(row, j.cfg.Scoring.DefenseWeights),
			},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}

// collectDivision fetches every stat metric and the two ratings for one
// division and joins them per club. Clubs missing any input are dropped;
// a partial row would make both scores incomparable.
func (j *PlayStyleJob) collectDivision(ctx context.Context, division, year int) ([]feature.Row, error) {
	byKey := make(map[string]*feature.Row)
	var order []string

	row := func(name string) *feature.Row {
		key := store.NormalizeKey(name)
		r, ok := byKey[key]
		if !ok {
			r = &feature.Row{ClubKey: key, ClubName: name, Cols: make(map[string]float64)}
			byKey[key] = r
			order = append(order, key)
		}
		return r
	}

	for _, metric := range statMetrics {
		values, err := j.stats.Fetch(ctx, division, year, metric)
		if err != nil {
			return nil, fmt.Errorf("fetch %s j%d: %w", metric, division, err)
		}
		for _, v := range values {
			row(v.ClubName).Set(metric, v.Value)
		}
		j.client.Pace(ctx)
	}

	ratings, err := j.ratings.Fetch(ctx, division, year)
	if err != nil {
		return nil, fmt.Errorf("fetch ratings j%d: %w", division, err)
	}
	for _, r := range ratings {
		row(r.ClubName).Set("attack_rating", r.AttackRating)
		row(r.ClubName).Set("defense_rating", r.DefenseRating)
	}
	j.client.Pace(ctx)

	want := len(statMetrics) + 2
	var rows []feature.Row
	for _, key := range order {
		r := byKey[key]
		if len(r.Cols) < want {
			fmt.Fprintf(os.Stderr, "  %s: %s missing inputs, dropped\n", j.Name(), r.ClubName)
			continue
		}
		rows = append(rows, *r)
	}
	return rows, nil
}

func (j *PlayStyleJob) columnSpecs() []feature.ColumnSpec {
	seen := make(map[string]bool)
	for col := range j.cfg.Scoring.AttackWeights {
		seen[col] = true
	}
	for col := range j.cfg.Scoring.DefenseWeights {
		seen[col] = true
	}

	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	specs := make([]feature.ColumnSpec, 0, len(cols))
	for _, col := range cols {
		specs = append(specs, feature.ColumnSpec{Name: col, Reverse: j.cfg.Scoring.IsReverse(col)})
	}
	return specs
}
