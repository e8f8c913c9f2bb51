package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/source"
)

// PopularityJob stores each club's official channel subscriber count. The
// raw count goes into the database; the questionnaire scoring normalizes
// across clubs, so no rescaling happens here.
type PopularityJob struct {
	store  FeatureStore
	social *source.Social
	client *source.Client
	cfg    *config.Config
}

func NewPopularityJob(s FeatureStore, social *source.Social, client *source.Client, cfg *config.Config) *PopularityJob {
	return &PopularityJob{store: s, social: social, client: client, cfg: cfg}
}

func (j *PopularityJob) Name() string { return "popularity" }

func (j *PopularityJob) Run(ctx context.Context) error {
	accounts, err := LoadAccounts(j.cfg.Pipeline.SettingsDir)
	if err != nil {
		return err
	}

	var updates []clubUpdate
	for _, account := range accounts {
		if account.YouTubeChannelID == "" {
			continue
		}
		subs, err := j.social.Subscribers(ctx, account.YouTubeChannelID)
		if err != nil {
			// One club's API hiccup should not zero it out or stop the
			// rest; its previous value stays.
			fmt.Fprintf(os.Stderr, "  %s: %s: %v, skipped\n", j.Name(), account.ClubName, err)
			continue
		}
		j.client.Pace(ctx)

		updates = append(updates, clubUpdate{
			key:   store.NormalizeKey(account.ClubName),
			name:  account.ClubName,
			feats: map[string]float64{"popularity_score": float64(subs)},
		})
	}
	if len(updates) == 0 {
		return fmt.Errorf("no subscriber counts fetched")
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
