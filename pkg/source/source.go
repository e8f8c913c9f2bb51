// Package source fetches raw club metrics from the external sites the
// feature pipeline aggregates: league standings, per-metric stat rankings,
// attack/defense ratings, transfer listings, attendance figures, social
// follower counts and club news feeds.
package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "clubmatch/1.0"

// Client is the shared HTTP client for all fetchers. Successive calls are
// paced by a fixed delay out of politeness toward the upstream sites; a
// failed call never stops the caller's batch on its own.
type Client struct {
	http  *http.Client
	delay time.Duration
}

// NewClient creates a client with the given inter-call delay.
func NewClient(delay time.Duration) *Client {
	return &Client{
		http:  &http.Client{Timeout: 30 * time.Second},
		delay: delay,
	}
}

// Pace waits the configured delay, or returns early when ctx is done.
// Fetch loops call it between successive requests.
func (c *Client) Pace(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
	}
}

func (c *Client) getDocument(ctx context.Context, rawURL string, params url.Values) (*goquery.Document, error) {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

var nonNumeric = regexp.MustCompile(`[^\d.-]+`)

// parseNumber extracts a float from scraped cell text, dropping thousands
// separators, units and percent signs.
func parseNumber(s string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}
