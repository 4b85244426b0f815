// Package client provides an HTTP client for the postmind server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/smahlberg/postmind/internal/generator"
	"github.com/smahlberg/postmind/internal/metrics"
	"github.com/smahlberg/postmind/internal/models"
)

// Client talks to a running postmind server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses POSTMIND_SERVER_URL env var or defaults to localhost:8480.
// Timeout can be configured via POSTMIND_CLIENT_TIMEOUT env var (default 5m for slow LLM backends).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("POSTMIND_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8480"
	}

	timeout := 5 * time.Minute
	if t := os.Getenv("POSTMIND_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateRequest mirrors the POST /api/generate wire shape. Optional fields
// use pointers; absent fields take server-side defaults.
type GenerateRequest struct {
	UserID string `json:"user_id"`
	Topic  string `json:"topic"`

	Tone      string `json:"tone,omitempty"`
	Audience  string `json:"audience,omitempty"`
	Length    string `json:"length,omitempty"`
	StyleMode string `json:"style_mode,omitempty"`

	IncludeEmoji    *bool `json:"include_emoji,omitempty"`
	IncludeHashtags *bool `json:"include_hashtags,omitempty"`
	NumHashtags     *int  `json:"num_hashtags,omitempty"`

	IsSeries bool    `json:"is_series,omitempty"`
	SeriesID *string `json:"series_id,omitempty"`
}

// HistoryResponse is the GET /api/history/:user_id payload.
type HistoryResponse struct {
	UserID     string               `json:"user_id"`
	TotalPosts int                  `json:"total_posts"`
	Posts      []models.PostSummary `json:"posts"`
}

// SeriesResponse is the GET /api/series/:user_id payload.
type SeriesResponse struct {
	UserID      string                 `json:"user_id"`
	TotalSeries int                    `json:"total_series"`
	Series      []models.SeriesSummary `json:"series"`
}

// apiError is the server's uniform error body.
type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code"`
}

// do executes one request and decodes the JSON response into result.
// Non-2xx responses are turned into errors carrying the server's error body.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Error != "" {
			if ae.Detail != "" {
				return fmt.Errorf("server error (%s): %s: %s", ae.Code, ae.Error, ae.Detail)
			}
			return fmt.Errorf("server error (%s): %s", ae.Code, ae.Error)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(raw))
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Generate requests a new post.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*generator.PostResponse, error) {
	var resp generator.PostResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns a user's recent posts. limit <= 0 leaves the server default.
func (c *Client) History(ctx context.Context, userID string, limit int) (*HistoryResponse, error) {
	path := "/api/history/" + url.PathEscape(userID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp HistoryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Series returns a user's series summaries.
func (c *Client) Series(ctx context.Context, userID string) (*SeriesResponse, error) {
	var resp SeriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/series/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns the server's in-memory pipeline statistics.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
