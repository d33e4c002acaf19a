// Package monthlydata fetches a startup's historical monthly records from the
// platform's user-data service.
package monthlydata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/source"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "runway/1.0"
)

var (
	// ErrUnauthorized indicates the bearer token is missing, expired or invalid.
	ErrUnauthorized = errors.New("monthlydata: unauthorized (token expired or invalid)")
	// ErrNotFound indicates the startup does not exist.
	ErrNotFound = errors.New("monthlydata: not found")
)

// Fetcher retrieves historical months for a startup.
type Fetcher interface {
	FetchMonthlyData(ctx context.Context, startupID string) ([]model.MonthlyRecord, error)
}

// Client talks to the user-data service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for baseURL authenticated with token.
// Returns nil if the token is empty.
func NewClient(baseURL, token string) *Client {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// FetchMonthlyData returns the startup's monthly records. An empty startupID
// returns the caller's own startup.
func (c *Client) FetchMonthlyData(ctx context.Context, startupID string) ([]model.MonthlyRecord, error) {
	path := "/api/user/startup-monthly-data"
	if startupID != "" {
		path += "?startupId=" + url.QueryEscape(startupID)
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	records, err := source.DecodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("monthlydata: parsing monthly data: %w", err)
	}
	return records, nil
}

// FetchStartup returns the business profile for startupID.
func (c *Client) FetchStartup(ctx context.Context, startupID string) (*Startup, error) {
	body, err := c.get(ctx, "/api/business/"+url.PathEscape(startupID))
	if err != nil {
		return nil, err
	}

	var s Startup
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("monthlydata: parsing startup: %w", err)
	}
	return &s, nil
}

// get performs an authenticated GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("monthlydata: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	//nolint:gosec // base URL comes from the user's config
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("monthlydata: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("monthlydata: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("monthlydata: reading response: %w", err)
	}
	return body, nil
}
