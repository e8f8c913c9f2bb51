package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ymatsuda/clubmatch/pkg/feature"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Sources  SourcesConfig  `yaml:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Server   ServerConfig   `yaml:"server"`
	Seeds    SeedsConfig    `yaml:"seeds"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// AlertsConfig configures where failed pipeline runs are reported.
type AlertsConfig struct {
	Slack   SlackAlertConfig   `yaml:"slack"`
	Discord DiscordAlertConfig `yaml:"discord"`
	Webhook WebhookAlertConfig `yaml:"webhook"`
}

type SlackAlertConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

type DiscordAlertConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

type WebhookAlertConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures the daemon's batch collection cadence.
type ScheduleConfig struct {
	CollectInterval string   `yaml:"collect_interval"`
	Jobs            []string `yaml:"jobs"` // empty = all registered jobs
}

// ParseCollectInterval returns the collect interval as time.Duration.
func (s ScheduleConfig) ParseCollectInterval() time.Duration {
	d, err := time.ParseDuration(s.CollectInterval)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// SourcesConfig holds the external endpoints the feature jobs fetch from.
type SourcesConfig struct {
	League LeagueSiteConfig `yaml:"league"`
	Stats  StatsSiteConfig  `yaml:"stats"`
	Data   DataSiteConfig   `yaml:"data"`
	Social SocialConfig     `yaml:"social"`
	News   NewsConfig       `yaml:"news"`

	// RequestDelay paces successive external calls within one job. This is
	// politeness toward the upstream sites, not a correctness concern.
	RequestDelay string `yaml:"request_delay"`
}

// ParseRequestDelay returns the inter-call delay as time.Duration.
func (s SourcesConfig) ParseRequestDelay() time.Duration {
	d, err := time.ParseDuration(s.RequestDelay)
	if err != nil {
		return time.Second
	}
	return d
}

// LeagueSiteConfig points at the official league site: per-metric club stat
// rankings, the standings page with recent-match icons, and the seasonal
// transfer listings.
type LeagueSiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StatsSiteConfig points at the analytics site carrying season standings
// and the attack/defense ratings.
type StatsSiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DataSiteConfig points at the match data site used for per-match home
// attendance figures.
type DataSiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SocialConfig for the follower-count collection behind the popularity
// feature.
type SocialConfig struct {
	YouTubeAPIKey string `yaml:"youtube_api_key"`
	APIBaseURL    string `yaml:"api_base_url"`
}

// NewsConfig for club news feed activity behind the supporter-heat feature.
type NewsConfig struct {
	Window string `yaml:"window"` // how far back feed items count
}

// ParseWindow returns the news activity window as time.Duration.
func (n NewsConfig) ParseWindow() time.Duration {
	d, err := time.ParseDuration(n.Window)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// PipelineConfig holds operational knobs shared by the feature jobs.
type PipelineConfig struct {
	// SettingsDir holds curated input files: team id mapping CSV, social
	// account mapping JSON, finance CSV. A job whose settings file is
	// missing fails outright instead of applying a partial update.
	SettingsDir string `yaml:"settings_dir"`
	Divisions   []int  `yaml:"divisions"`
	Season      int    `yaml:"season"` // anchor season year; 0 = current year
	// AttendanceUse selects which aggregate of per-match attendance is
	// stored: "median" or "average".
	AttendanceUse string `yaml:"attendance_use"`
}

// AnchorSeason resolves the anchor season, defaulting to the current year.
func (p PipelineConfig) AnchorSeason() int {
	if p.Season > 0 {
		return p.Season
	}
	return time.Now().Year()
}

// DivisionParams are the per-division base offset and rank spread used by
// the long-term strength score.
type DivisionParams struct {
	Base float64 `yaml:"base"`
	Beta float64 `yaml:"beta"`
}

// ScoringConfig carries every weight table as externally modifiable
// configuration. These are calibrated constants, not learned values; the
// compilers and the recommendation engine treat them as opaque input.
type ScoringConfig struct {
	AttackWeights       map[string]float64     `yaml:"attack_weights"`
	DefenseWeights      map[string]float64     `yaml:"defense_weights"`
	ReverseIndicators   []string               `yaml:"reverse_indicators"`
	DivisionParams      map[int]DivisionParams `yaml:"division_params"`
	DomesticTitles      map[string]float64     `yaml:"domestic_title_weights"`
	InternationalTitles map[string]float64     `yaml:"international_title_weights"`
	NoShowTiers         []feature.NoShowTier   `yaml:"no_show_tiers"`
	RecentMatches       int                    `yaml:"recent_matches"`
	SeasonsBack         int                    `yaml:"seasons_back"` // seasons before the anchor
	TopN                int                    `yaml:"top_n"`
}

// IsReverse reports whether a metric is a reverse indicator (lower raw
// value is better).
func (s ScoringConfig) IsReverse(metric string) bool {
	for _, m := range s.ReverseIndicators {
		if m == metric {
			return true
		}
	}
	return false
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SeedsConfig points at the JSON seed files.
type SeedsConfig struct {
	ClubsFile     string `yaml:"clubs_file"`
	QuestionsFile string `yaml:"questions_file"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./clubmatch.db"},
		Schedule: ScheduleConfig{CollectInterval: "24h"},
		Sources: SourcesConfig{
			League:       LeagueSiteConfig{BaseURL: "https://www.jleague.co"},
			Stats:        StatsSiteConfig{BaseURL: "https://www.football-lab.jp"},
			Data:         DataSiteConfig{BaseURL: "https://data.j-league.or.jp/SFMS01/search"},
			Social:       SocialConfig{APIBaseURL: "https://www.googleapis.com/youtube/v3"},
			News:         NewsConfig{Window: "720h"},
			RequestDelay: "1s",
		},
		Pipeline: PipelineConfig{
			SettingsDir:   "./settings",
			Divisions:     []int{1, 2, 3},
			AttendanceUse: "median",
		},
		Scoring: ScoringConfig{
			AttackWeights: map[string]float64{
				"ball_rate":       0.15,
				"shots":           0.20,
				"goals_scored":    0.15,
				"chances_created": 0.20,
				"attack_rating":   0.30,
			},
			DefenseWeights: map[string]float64{
				"ball_rate":      0.15,
				"shots_conceded": 0.25,
				"goals_conceded": 0.15,
				"blocks":         0.15,
				"defense_rating": 0.30,
			},
			ReverseIndicators: []string{"ball_rate", "shots_conceded", "goals_conceded"},
			DivisionParams: map[int]DivisionParams{
				1: {Base: 0.70, Beta: 0.30},
				2: {Base: 0.40, Beta: 0.30},
				3: {Base: 0.20, Beta: 0.30},
			},
			DomesticTitles: map[string]float64{
				"win_league1":      1.0,
				"win_league2":      0.5,
				"win_league3":      0.3,
				"win_national_cup": 0.75,
				"win_league_cup":   0.75,
			},
			InternationalTitles: map[string]float64{
				"win_continental":  1.0,
				"win_continental2": 0.5,
			},
			NoShowTiers: []feature.NoShowTier{
				{MaxCapacity: 10000, Factor: 1.03},
				{MaxCapacity: 20000, Factor: 1.05},
				{MaxCapacity: 30000, Factor: 1.08},
				{MaxCapacity: 40000, Factor: 1.10},
				{MaxCapacity: 0, Factor: 1.13},
			},
			RecentMatches: 5,
			SeasonsBack:   4,
			TopN:          3,
		},
		Server: ServerConfig{Port: 8080},
		Seeds: SeedsConfig{
			ClubsFile:     "./seeds/clubs.json",
			QuestionsFile: "./seeds/questions.json",
		},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLUBMATCH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CLUBMATCH_SETTINGS_DIR"); v != "" {
		cfg.Pipeline.SettingsDir = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.Sources.Social.YouTubeAPIKey = v
	}
	if v := os.Getenv("CLUBMATCH_SEASON"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Season = year
		}
	}
}
