package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Social fetches official-channel subscriber counts from the YouTube Data
// API. Clubs without a registered channel are simply absent from the
// pipeline's popularity input.
type Social struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewSocial creates a subscriber fetcher. baseURL is the API root without a
// trailing slash, normally https://www.googleapis.com/youtube/v3.
func NewSocial(client *Client, baseURL, apiKey string) *Social {
	return &Social{client: client, baseURL: baseURL, apiKey: apiKey}
}

type ytChannelsResult struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			// The API returns counts as JSON strings, not numbers.
			SubscriberCount string `json:"subscriberCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Subscribers returns the current subscriber count for one channel.
func (s *Social) Subscribers(ctx context.Context, channelID string) (int64, error) {
	if s.apiKey == "" {
		return 0, fmt.Errorf("youtube: API key required (set YOUTUBE_API_KEY)")
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", channelID)
	params.Set("key", s.apiKey)

	reqURL := s.baseURL + "/channels?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create youtube channels request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch youtube channels: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("youtube channels status %d", resp.StatusCode)
	}

	var result ytChannelsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode youtube channels: %w", err)
	}
	if len(result.Items) == 0 {
		return 0, fmt.Errorf("youtube channel %s not found", channelID)
	}

	count, err := strconv.ParseInt(result.Items[0].Statistics.SubscriberCount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subscriber count for %s: %w", channelID, err)
	}
	return count, nil
}
