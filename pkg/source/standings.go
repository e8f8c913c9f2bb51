package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// StandingRow is one club's final position in a season's division table.
type StandingRow struct {
	ClubName  string
	ShortName string // stable across season renames; the cross-season join key
	Standing  int
	Division  int
}

// Standings fetches season-by-season division tables from the analytics
// site.
type Standings struct {
	client  *Client
	baseURL string
}

// NewStandings creates a standings fetcher against the given site base URL.
func NewStandings(client *Client, baseURL string) *Standings {
	return &Standings{client: client, baseURL: baseURL}
}

// Fetch returns the division table for one season, most successful club
// first. An empty slice means the site has no table for that season, which
// callers treat as an absent season rather than an error.
func (s *Standings) Fetch(ctx context.Context, division, year int) ([]StandingRow, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))

	doc, err := s.client.getDocument(ctx, fmt.Sprintf("%s/team_ranking/j%d", s.baseURL, division), params)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table#standing")
	if table.Length() == 0 {
		return nil, nil
	}

	var rows []StandingRow
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 { // header
			return
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		standing, err := parseNumber(cells.First().Text())
		if err != nil {
			return
		}
		// Full name for display, short name for cross-season joins.
		name := tr.Find("span.dsktp").First().Text()
		short := tr.Find("span.sp").First().Text()
		if name == "" {
			return
		}

		rows = append(rows, StandingRow{
			ClubName:  name,
			ShortName: short,
			Standing:  int(standing),
			Division:  division,
		})
	})

	return rows, nil
}
