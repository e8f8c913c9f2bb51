package pipeline

import (
	"context"
	"fmt"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/store"
)

// FinanceJob loads annual revenues from the curated settings CSV. The
// league publishes financial disclosures once a year as documents, not as
// scrapeable pages, so this input stays hand-maintained.
type FinanceJob struct {
	store FeatureStore
	cfg   *config.Config
}

func NewFinanceJob(s FeatureStore, cfg *config.Config) *FinanceJob {
	return &FinanceJob{store: s, cfg: cfg}
}

func (j *FinanceJob) Name() string { return "finance" }

func (j *FinanceJob) Run(ctx context.Context) error {
	revenues, err := LoadRevenues(j.cfg.Pipeline.SettingsDir)
	if err != nil {
		return err
	}
	if len(revenues) == 0 {
		return fmt.Errorf("no revenue rows in settings")
	}

	// The disclosure sheets use short names.
	var updates []clubUpdate
	for _, r := range revenues {
		updates = append(updates, clubUpdate{
			key:   store.NormalizeKey(r.ShortName),
			name:  r.ShortName,
			feats: map[string]float64{"financial_power": r.Revenue},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}
