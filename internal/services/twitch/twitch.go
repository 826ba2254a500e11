// Package twitch is a minimal Helix API client used to list recent VODs for
// a channel so they can be enqueued without copying URLs by hand.
package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.twitch.tv/helix"

// VOD is one archived broadcast.
type VOD struct {
	ID        string
	URL       string
	Title     string
	CreatedAt time.Time
	Duration  time.Duration
}

// Client calls the Helix videos endpoint.
type Client struct {
	clientID    string
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// NewClient builds a Helix client. Credentials come from config or env.
func NewClient(clientID, accessToken string) *Client {
	return &Client{
		clientID:    clientID,
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.accessToken != ""
}

type videosResponse struct {
	Data []struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		Title     string `json:"title"`
		CreatedAt string `json:"created_at"`
		Duration  string `json:"duration"`
	} `json:"data"`
}

// RecentVODs lists the newest archived broadcasts for a channel.
func (c *Client) RecentVODs(ctx context.Context, channelID string, limit int) ([]VOD, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("twitch credentials not configured")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel id required")
	}
	if limit <= 0 {
		limit = 5
	}

	query := url.Values{}
	query.Set("user_id", channelID)
	query.Set("type", "archive")
	query.Set("first", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build videos request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch videos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("helix videos returned %d: %s", resp.StatusCode, string(body))
	}

	var payload videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode videos response: %w", err)
	}

	vods := make([]VOD, 0, len(payload.Data))
	for _, entry := range payload.Data {
		vod := VOD{
			ID:    entry.ID,
			URL:   entry.URL,
			Title: entry.Title,
		}
		if created, err := time.Parse(time.RFC3339, entry.CreatedAt); err == nil {
			vod.CreatedAt = created
		}
		if duration, err := ParseHelixDuration(entry.Duration); err == nil {
			vod.Duration = duration
		}
		vods = append(vods, vod)
	}
	return vods, nil
}

// ParseHelixDuration parses Helix duration strings like "3h2m31s".
func ParseHelixDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}
	return time.ParseDuration(raw)
}
