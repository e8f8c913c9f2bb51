// Package store persists clubs, the questionnaire and its answer weights
// in SQLite, and applies the feature updates computed by the offline
// pipeline.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ymatsuda/clubmatch/pkg/feature"
	"github.com/ymatsuda/clubmatch/pkg/recommend"
)

// Question is one questionnaire prompt with its ordered choices.
type Question struct {
	ID      int64    `db:"id" json:"id"`
	Text    string   `db:"text" json:"text"`
	Order   int      `db:"ord" json:"order"`
	Choices []Choice `db:"-" json:"choices"`
}

// Choice belongs to exactly one question.
type Choice struct {
	ID         int64  `db:"id" json:"id"`
	QuestionID int64  `db:"question_id" json:"-"`
	Text       string `db:"text" json:"text"`
	Order      int    `db:"ord" json:"order"`
}

// ClubFacts is the non-feature club state the DB-only jobs read: stadium
// figures for ticket availability, title counts for the title scores.
type ClubFacts struct {
	ID              int64   `db:"id"`
	Name            string  `db:"name"`
	ShortName       string  `db:"short_name"`
	NameKey         string  `db:"name_key"`
	Division        int     `db:"division"`
	StadiumCapacity int     `db:"stadium_capacity"`
	HomeAttendance  float64 `db:"home_attendance"`
	WinLeague1      int     `db:"win_league1"`
	WinLeague2      int     `db:"win_league2"`
	WinLeague3      int     `db:"win_league3"`
	WinNationalCup  int     `db:"win_national_cup"`
	WinLeagueCup    int     `db:"win_league_cup"`
	WinContinental  int     `db:"win_continental"`
	WinContinental2 int     `db:"win_continental2"`
}

// TitleRow exposes the title counts as a feature row for score compilation.
func (f ClubFacts) TitleRow() feature.Row {
	return feature.Row{
		ClubKey:  f.NameKey,
		ClubName: f.Name,
		Cols: map[string]float64{
			"win_league1":      float64(f.WinLeague1),
			"win_league2":      float64(f.WinLeague2),
			"win_league3":      float64(f.WinLeague3),
			"win_national_cup": float64(f.WinNationalCup),
			"win_league_cup":   float64(f.WinLeagueCup),
			"win_continental":  float64(f.WinContinental),
			"win_continental2": float64(f.WinContinental2),
		},
	}
}

// featureColumns whitelists the club columns the pipeline may write.
// Feature names arriving from jobs are looked up here, never interpolated
// into SQL directly.
var featureColumns = map[string]bool{
	"strength_long_term":    true,
	"strength_short_term":   true,
	"domestic_titles":       true,
	"international_titles":  true,
	"popularity_score":      true,
	"supporter_heat":        true,
	"financial_power":       true,
	"ticket_availability":   true,
	"play_style_attack":     true,
	"play_style_defense":    true,
	"youth_promotion_score": true,
	"home_attendance":       true,
}

// Store is the persistence interface.
type Store interface {
	SeedClubs(ctx context.Context, clubs []ClubSeed) (int, error)
	ReplaceQuestions(ctx context.Context, questions []QuestionSeed) error
	ListQuestions(ctx context.Context) ([]Question, error)

	ListClubs(ctx context.Context) ([]recommend.Club, error)
	ListWeights(ctx context.Context, questionID, choiceID int64) ([]recommend.FeatureWeight, error)

	ListClubFacts(ctx context.Context) ([]ClubFacts, error)
	UpdateClubFeatures(ctx context.Context, clubKey string, feats map[string]float64) (bool, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// NormalizeKey reduces a club name to a stable join key: lowercased with
// everything but letters and digits stripped. Official names drift between
// seasons (suffixes, spacing, width variants); the key survives that.
func NormalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type dbClub struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	ShortName   string `db:"short_name"`
	NameKey     string `db:"name_key"`
	ShortKey    string `db:"short_key"`
	Division    int    `db:"division"`
	Location    string `db:"location"`
	EmblemURL   string `db:"emblem_url"`
	TeamColor   string `db:"team_color"`
	WebsiteURL  string `db:"website_url"`
	Description string `db:"description"`
	StadiumName string `db:"stadium_name"`

	StadiumCapacity int     `db:"stadium_capacity"`
	HomeAttendance  float64 `db:"home_attendance"`

	WinLeague1      int `db:"win_league1"`
	WinLeague2      int `db:"win_league2"`
	WinLeague3      int `db:"win_league3"`
	WinNationalCup  int `db:"win_national_cup"`
	WinLeagueCup    int `db:"win_league_cup"`
	WinContinental  int `db:"win_continental"`
	WinContinental2 int `db:"win_continental2"`

	StrengthLongTerm    float64 `db:"strength_long_term"`
	StrengthShortTerm   float64 `db:"strength_short_term"`
	DomesticTitles      float64 `db:"domestic_titles"`
	InternationalTitles float64 `db:"international_titles"`
	PopularityScore     float64 `db:"popularity_score"`
	SupporterHeat       float64 `db:"supporter_heat"`
	FinancialPower      float64 `db:"financial_power"`
	TicketAvailability  float64 `db:"ticket_availability"`
	PlayStyleAttack     float64 `db:"play_style_attack"`
	PlayStyleDefense    float64 `db:"play_style_defense"`
	YouthPromotion      float64 `db:"youth_promotion_score"`
}

func (c dbClub) toRecommend() recommend.Club {
	return recommend.Club{
		ID:          c.ID,
		Name:        c.Name,
		ShortName:   c.ShortName,
		Division:    c.Division,
		Location:    c.Location,
		EmblemURL:   c.EmblemURL,
		TeamColor:   c.TeamColor,
		WebsiteURL:  c.WebsiteURL,
		Description: c.Description,
		Features: map[string]float64{
			"strength_long_term":    c.StrengthLongTerm,
			"strength_short_term":   c.StrengthShortTerm,
			"domestic_titles":       c.DomesticTitles,
			"international_titles":  c.InternationalTitles,
			"popularity_score":      c.PopularityScore,
			"supporter_heat":        c.SupporterHeat,
			"financial_power":       c.FinancialPower,
			"ticket_availability":   c.TicketAvailability,
			"play_style_attack":     c.PlayStyleAttack,
			"play_style_defense":    c.PlayStyleDefense,
			"youth_promotion_score": c.YouthPromotion,
		},
	}
}

// ListClubs returns every club ordered by division then name. That order
// is the stable tie-break the recommendation engine relies on.
func (s *SQLiteStore) ListClubs(ctx context.Context) ([]recommend.Club, error) {
	var rows []dbClub
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM clubs ORDER BY division, name")
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	clubs := make([]recommend.Club, len(rows))
	for i, r := range rows {
		clubs[i] = r.toRecommend()
	}
	return clubs, nil
}

func (s *SQLiteStore) ListWeights(ctx context.Context, questionID, choiceID int64) ([]recommend.FeatureWeight, error) {
	var weights []recommend.FeatureWeight
	err := s.db.SelectContext(ctx, &weights, `
		SELECT question_id, choice_id, feature_name, weight
		FROM question_choice_weights
		WHERE question_id = ? AND choice_id = ?
	`, questionID, choiceID)
	if err != nil {
		return nil, fmt.Errorf("list weights q%d/c%d: %w", questionID, choiceID, err)
	}
	return weights, nil
}

func (s *SQLiteStore) ListClubFacts(ctx context.Context) ([]ClubFacts, error) {
	var facts []ClubFacts
	err := s.db.SelectContext(ctx, &facts, `
		SELECT id, name, short_name, name_key, division,
		       stadium_capacity, home_attendance,
		       win_league1, win_league2, win_league3,
		       win_national_cup, win_league_cup,
		       win_continental, win_continental2
		FROM clubs ORDER BY division, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list club facts: %w", err)
	}
	return facts, nil
}

// UpdateClubFeatures writes the given feature values onto the club whose
// normalized name or short-name key matches clubKey, in one statement so
// the row's feature set changes atomically. Returns false when no club
// matched; the caller decides whether that is worth noting (scraped names
// drift, a single miss must not abort a batch).
func (s *SQLiteStore) UpdateClubFeatures(ctx context.Context, clubKey string, feats map[string]float64) (bool, error) {
	if len(feats) == 0 {
		return false, nil
	}

	names := make([]string, 0, len(feats))
	for f := range feats {
		if !featureColumns[f] {
			return false, fmt.Errorf("unknown feature column %q", f)
		}
		names = append(names, f)
	}
	sort.Strings(names)

	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+2)
	for i, f := range names {
		sets[i] = f + " = ?"
		args = append(args, feats[f])
	}

	key := NormalizeKey(clubKey)
	args = append(args, key, key)

	query := "UPDATE clubs SET " + strings.Join(sets, ", ") +
		" WHERE name_key = ? OR short_key = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update features for %q: %w", clubKey, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]Question, error) {
	var questions []Question
	err := s.db.SelectContext(ctx, &questions, "SELECT id, text, ord FROM questions ORDER BY ord, id")
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	var choices []Choice
	err = s.db.SelectContext(ctx, &choices, "SELECT id, question_id, text, ord FROM choices ORDER BY ord, id")
	if err != nil {
		return nil, fmt.Errorf("list choices: %w", err)
	}

	byQuestion := make(map[int64][]Choice)
	for _, c := range choices {
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}
	for i := range questions {
		questions[i].Choices = byQuestion[questions[i].ID]
	}
	return questions, nil
}
