package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// ratingValueCol is the column index of the rating figure in the analytics
// site's rating tables.
const ratingValueCol = 3

// RatingRow is one club's attack and defense rating for a season.
type RatingRow struct {
	ClubName      string
	AttackRating  float64
	DefenseRating float64
}

// Ratings fetches the analytics site's attack/defense rating tables. The
// page carries two tables: attack ratings first, defense ratings second.
type Ratings struct {
	client  *Client
	baseURL string
}

// NewRatings creates a ratings fetcher.
func NewRatings(client *Client, baseURL string) *Ratings {
	return &Ratings{client: client, baseURL: baseURL}
}

// Fetch returns per-club attack and defense ratings for one division
// season. Clubs appearing in only one of the two tables are dropped; both
// ratings are required downstream.
func (r *Ratings) Fetch(ctx context.Context, division, year int) ([]RatingRow, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("data", "kagi")

	doc, err := r.client.getDocument(ctx, fmt.Sprintf("%s/team_ranking/j%d", r.baseURL, division), params)
	if err != nil {
		return nil, err
	}

	tables := doc.Find("table.statsTbl")
	if tables.Length() < 2 {
		return nil, nil
	}

	attackNames, attack := parseRatingTable(tables.Eq(0))
	_, defense := parseRatingTable(tables.Eq(1))

	var rows []RatingRow
	for _, name := range attackNames {
		def, ok := defense[name]
		if !ok {
			continue
		}
		rows = append(rows, RatingRow{ClubName: name, AttackRating: attack[name], DefenseRating: def})
	}
	return rows, nil
}

func parseRatingTable(table *goquery.Selection) ([]string, map[string]float64) {
	var names []string
	out := make(map[string]float64)
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if i == 0 || cells.Length() <= ratingValueCol {
			return
		}
		name := tr.Find("span.dsktp").First().Text()
		if name == "" {
			return
		}
		v, err := parseNumber(cells.Eq(ratingValueCol).Text())
		if err != nil {
			return
		}
		names = append(names, name)
		out[name] = v
	})
	return names, out
}
