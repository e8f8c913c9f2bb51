package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// ClubNews measures how active a club's official news feed is. The count of
// recent items feeds the supporter-heat signal.
type ClubNews struct {
	parser *gofeed.Parser
	window time.Duration
}

// NewClubNews creates a feed activity fetcher counting items newer than
// window.
func NewClubNews(client *Client, window time.Duration) *ClubNews {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	if client != nil {
		parser.Client = client.http
	}
	return &ClubNews{parser: parser, window: window}
}

// Activity returns how many items the feed published within the configured
// window. Items without a parseable timestamp are counted, since some club
// feeds omit dates entirely and an active feed should not score zero for
// that.
func (n *ClubNews) Activity(ctx context.Context, feedURL string) (int, error) {
	feed, err := n.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	cutoff := time.Now().Add(-n.window)
	count := 0
	for _, item := range feed.Items {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published == nil || published.After(cutoff) {
			count++
		}
	}
	return count, nil
}
