package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_WeightTables(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.30, cfg.Scoring.AttackWeights["attack_rating"])
	assert.Equal(t, 0.25, cfg.Scoring.DefenseWeights["shots_conceded"])
	assert.Equal(t, 1.0, cfg.Scoring.DomesticTitles["win_league1"])
	assert.Equal(t, 0.5, cfg.Scoring.InternationalTitles["win_continental2"])
	assert.Equal(t, 0.70, cfg.Scoring.DivisionParams[1].Base)
	assert.Equal(t, 3, cfg.Scoring.TopN)
	assert.Equal(t, 5, cfg.Scoring.RecentMatches)
	assert.Equal(t, 4, cfg.Scoring.SeasonsBack)
}

func TestScoring_IsReverse(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Scoring.IsReverse("ball_rate"))
	assert.True(t, cfg.Scoring.IsReverse("goals_conceded"))
	assert.False(t, cfg.Scoring.IsReverse("blocks"))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
database:
  path: /tmp/test.db
scoring:
  top_n: 5
schedule:
  collect_interval: 12h
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Scoring.TopN)
	assert.Equal(t, "12h", cfg.Schedule.CollectInterval)
	// Untouched sections keep defaults.
	assert.Equal(t, 0.20, cfg.Scoring.AttackWeights["shots"])
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CLUBMATCH_DB_PATH", "/env/club.db")
	t.Setenv("CLUBMATCH_SEASON", "2024")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/club.db", cfg.Database.Path)
	assert.Equal(t, 2024, cfg.Pipeline.AnchorSeason())
}

func TestParseCollectInterval_BadValueFallsBack(t *testing.T) {
	s := ScheduleConfig{CollectInterval: "often"}
	assert.Equal(t, "24h0m0s", s.ParseCollectInterval().String())
}
