package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Match result icons on the league standings page carry the outcome in the
// image file name.
const (
	winIconMark  = "ico_match01"
	loseIconMark = "ico_match02"
	drawIconMark = "ico_match03"
)

// FormRow is one club's recent match results, oldest first, as points won
// per match (3/1/0).
type FormRow struct {
	ClubName string
	Points   []int
}

// RecentForm fetches the league site's standings page, which embeds each
// club's last few results as icons.
type RecentForm struct {
	client  *Client
	baseURL string
}

// NewRecentForm creates a recent-form fetcher.
func NewRecentForm(client *Client, baseURL string) *RecentForm {
	return &RecentForm{client: client, baseURL: baseURL}
}

// Fetch returns every club's recent results for one division.
func (r *RecentForm) Fetch(ctx context.Context, division int) ([]FormRow, error) {
	doc, err := r.client.getDocument(ctx, fmt.Sprintf("%s/standings/j%d/", r.baseURL, division), nil)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.scoreTable01")
	if table.Length() == 0 {
		return nil, nil
	}

	var rows []FormRow
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		name := tr.Find(`span[class^="emb"]`).First().Text()
		if name == "" {
			return
		}

		var points []int
		tr.Find("img").Each(func(_ int, img *goquery.Selection) {
			src, _ := img.Attr("src")
			if p, ok := iconPoints(src); ok {
				points = append(points, p)
			}
		})

		rows = append(rows, FormRow{ClubName: name, Points: points})
	})

	return rows, nil
}

func iconPoints(src string) (int, bool) {
	switch {
	case strings.Contains(src, winIconMark):
		return 3, true
	case strings.Contains(src, loseIconMark):
		return 0, true
	case strings.Contains(src, drawIconMark):
		return 1, true
	}
	return 0, false
}
