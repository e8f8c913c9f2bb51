package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Settings files are curated by hand and live outside the database. A
// missing file is a hard error: applying a partial update silently would
// skew scores against every club the file would have covered.

// TeamID maps a club to the data site's team identifier.
type TeamID struct {
	ClubName string
	Division int
	TeamID   string
}

// LoadTeamIDs reads the team id mapping CSV. Lines starting with '#' are
// comments; the first data line is the header.
func LoadTeamIDs(dir string) ([]TeamID, error) {
	records, err := readCSV(filepath.Join(dir, "team_ids.csv"))
	if err != nil {
		return nil, err
	}

	var out []TeamID
	for i, rec := range records {
		if i == 0 { // header
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("team_ids.csv line %d: want 3 columns, got %d", i+1, len(rec))
		}
		division, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("team_ids.csv line %d: division: %w", i+1, err)
		}
		out = append(out, TeamID{ClubName: rec[0], Division: division, TeamID: rec[2]})
	}
	return out, nil
}

// Revenue is one club's annual revenue in millions, keyed by short name.
type Revenue struct {
	ShortName string
	Revenue   float64
}

// LoadRevenues reads the revenue CSV published once per fiscal year. The
// figures go into the database as-is; scoring normalizes across clubs, so
// the unit never matters.
func LoadRevenues(dir string) ([]Revenue, error) {
	records, err := readCSV(filepath.Join(dir, "club_revenue.csv"))
	if err != nil {
		return nil, err
	}

	var out []Revenue
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("club_revenue.csv line %d: want 2 columns, got %d", i+1, len(rec))
		}
		revenue, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("club_revenue.csv line %d: revenue: %w", i+1, err)
		}
		out = append(out, Revenue{ShortName: rec[0], Revenue: revenue})
	}
	return out, nil
}

// Account maps a club to its official YouTube channel.
type Account struct {
	ClubName         string `json:"club_name"`
	YouTubeChannelID string `json:"youtube_channel_id"`
}

// LoadAccounts reads the social account mapping JSON.
func LoadAccounts(dir string) ([]Account, error) {
	var out []Account
	if err := readJSON(filepath.Join(dir, "club_accounts.json"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Feed maps a club to its official news feed.
type Feed struct {
	ClubName string `json:"club_name"`
	FeedURL  string `json:"feed_url"`
}

// LoadFeeds reads the club news feed mapping JSON.
func LoadFeeds(dir string) ([]Feed, error) {
	var out []Feed
	if err := readJSON(filepath.Join(dir, "club_feeds.json"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return records, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open settings %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}
