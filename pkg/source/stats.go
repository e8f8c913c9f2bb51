package source

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// metricSlugs translates pipeline metric names to the league site's URL
// slugs. Translation happens here, at the edge; the rest of the system
// only sees the pipeline names.
var metricSlugs = map[string]string{
	"ball_rate":       "ball_rate",
	"shots":           "shoot",
	"goals_scored":    "score",
	"chances_created": "chance_create",
	"shots_conceded":  "suffer_shoot",
	"goals_conceded":  "lost",
	"blocks":          "block_count",
}

// MetricValue is one club's value in a per-metric ranking list.
type MetricValue struct {
	ClubName string
	Value    float64
}

// StatRankings fetches the league site's per-metric club ranking pages.
type StatRankings struct {
	client  *Client
	baseURL string
}

// NewStatRankings creates a stat rankings fetcher.
func NewStatRankings(client *Client, baseURL string) *StatRankings {
	return &StatRankings{client: client, baseURL: baseURL}
}

// Fetch returns every club's value for one metric in one division season.
func (s *StatRankings) Fetch(ctx context.Context, division, year int, metric string) ([]MetricValue, error) {
	slug, ok := metricSlugs[metric]
	if !ok {
		return nil, fmt.Errorf("unknown stat metric %q", metric)
	}

	doc, err := s.client.getDocument(ctx,
		fmt.Sprintf("%s/stats/j%d/club/%d/%s/", s.baseURL, division, year, slug), nil)
	if err != nil {
		return nil, err
	}

	list := doc.Find("ul.ranking_list")
	if list.Length() == 0 {
		return nil, nil
	}

	var values []MetricValue
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		name := li.Find("p.team").First().Text()
		raw := li.Find(`div[class^="ranking_stats"] > p`).First().Text()
		if name == "" {
			return
		}
		v, err := parseNumber(raw)
		if err != nil {
			return
		}
		values = append(values, MetricValue{ClubName: name, Value: v})
	})

	return values, nil
}
