package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// ClubSeed is one entry of the clubs seed file. Titles and stadium data are
// curated by hand; the feature columns start at their schema defaults and
// are filled by the pipeline.
type ClubSeed struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Division        int    `json:"division"`
	Location        string `json:"location"`
	EmblemURL       string `json:"emblem_url"`
	TeamColor       string `json:"team_color"`
	WebsiteURL      string `json:"website_url"`
	Description     string `json:"description"`
	StadiumName     string `json:"stadium_name"`
	StadiumCapacity int    `json:"stadium_capacity"`

	WinLeague1      int `json:"win_league1"`
	WinLeague2      int `json:"win_league2"`
	WinLeague3      int `json:"win_league3"`
	WinNationalCup  int `json:"win_national_cup"`
	WinLeagueCup    int `json:"win_league_cup"`
	WinContinental  int `json:"win_continental"`
	WinContinental2 int `json:"win_continental2"`
}

// QuestionSeed is one entry of the questions seed file, carrying its
// choices and their feature weights inline.
type QuestionSeed struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Order   int          `json:"order"`
	Choices []ChoiceSeed `json:"choices"`
}

// ChoiceSeed is a choice plus the feature weights attached to picking it.
type ChoiceSeed struct {
	ID      int64              `json:"id"`
	Text    string             `json:"text"`
	Order   int                `json:"order"`
	Weights map[string]float64 `json:"weights"`
}

// LoadClubSeeds reads the clubs seed file. A missing file is a hard error:
// seeding from nothing would silently empty the reference set.
func LoadClubSeeds(path string) ([]ClubSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read club seeds %s: %w", path, err)
	}
	var clubs []ClubSeed
	if err := json.Unmarshal(data, &clubs); err != nil {
		return nil, fmt.Errorf("parse club seeds %s: %w", path, err)
	}
	return clubs, nil
}

// LoadQuestionSeeds reads the questions seed file.
func LoadQuestionSeeds(path string) ([]QuestionSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question seeds %s: %w", path, err)
	}
	var questions []QuestionSeed
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question seeds %s: %w", path, err)
	}
	return questions, nil
}

// SeedClubs upserts clubs by name. Existing clubs keep their computed
// feature values; only the curated fields are refreshed. The name and
// short-name join keys are resolved once here, at ingestion time.
func (s *SQLiteStore) SeedClubs(ctx context.Context, clubs []ClubSeed) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range clubs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO clubs (
				name, short_name, name_key, short_key, division, location,
				emblem_url, team_color, website_url, description,
				stadium_name, stadium_capacity,
				win_league1, win_league2, win_league3,
				win_national_cup, win_league_cup,
				win_continental, win_continental2
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				short_name = excluded.short_name,
				name_key = excluded.name_key,
				short_key = excluded.short_key,
				division = excluded.division,
				location = excluded.location,
				emblem_url = excluded.emblem_url,
				team_color = excluded.team_color,
				website_url = excluded.website_url,
				description = excluded.description,
				stadium_name = excluded.stadium_name,
				stadium_capacity = excluded.stadium_capacity,
				win_league1 = excluded.win_league1,
				win_league2 = excluded.win_league2,
				win_league3 = excluded.win_league3,
				win_national_cup = excluded.win_national_cup,
				win_league_cup = excluded.win_league_cup,
				win_continental = excluded.win_continental,
				win_continental2 = excluded.win_continental2
		`, c.Name, c.ShortName, NormalizeKey(c.Name), NormalizeKey(c.ShortName),
			c.Division, c.Location, c.EmblemURL, c.TeamColor, c.WebsiteURL,
			c.Description, c.StadiumName, c.StadiumCapacity,
			c.WinLeague1, c.WinLeague2, c.WinLeague3,
			c.WinNationalCup, c.WinLeagueCup,
			c.WinContinental, c.WinContinental2)
		if err != nil {
			return 0, fmt.Errorf("seed club %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	return len(clubs), nil
}

// ReplaceQuestions swaps the whole questionnaire in one transaction.
// Deleting a question cascades to its choices and weights, so the seed
// file is the single source of truth for the questionnaire.
func (s *SQLiteStore) ReplaceQuestions(ctx context.Context, questions []QuestionSeed) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin questions tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	for _, q := range questions {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO questions (id, text, ord) VALUES (?, ?, ?)",
			q.ID, q.Text, q.Order); err != nil {
			return fmt.Errorf("insert question %d: %w", q.ID, err)
		}

		for _, c := range q.Choices {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO choices (id, question_id, text, ord) VALUES (?, ?, ?, ?)",
				c.ID, q.ID, c.Text, c.Order); err != nil {
				return fmt.Errorf("insert choice %d/%d: %w", q.ID, c.ID, err)
			}

			for featureName, weight := range c.Weights {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO question_choice_weights (question_id, choice_id, feature_name, weight)
					VALUES (?, ?, ?, ?)
				`, q.ID, c.ID, featureName, weight); err != nil {
					return fmt.Errorf("insert weight %d/%d/%s: %w", q.ID, c.ID, featureName, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit questions tx: %w", err)
	}
	return nil
}
