// Package modrinth implements a minimal client for the Modrinth v2 API,
// used to search for mods and to resolve downloadable, loader-compatible
// versions of a project.
package modrinth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/craftctl-project/craftctl/internal/util"
)

const (
	defaultBaseURL = "https://api.modrinth.com/v2"
	userAgent      = "craftctl-project/craftctl/0.1.0"
)

// Client talks to the Modrinth REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a Modrinth API client with sane timeouts.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		logger: util.ComponentLogger("modrinth"),
	}
}

// WithBaseURL overrides the API base URL, mainly for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// SearchOptions narrows a search. Zero values mean no filter.
type SearchOptions struct {
	Loaders      []string
	GameVersions []string
	Limit        int
}

// Search queries Modrinth for mods matching query, filtered by opts.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResults, error) {
	// Facets per the search API, e.g.
	// [["project_type:mod"],["categories:fabric"],["versions:1.20.1"]]
	facets := [][]string{{"project_type:mod"}}
	for _, l := range opts.Loaders {
		facets = append(facets, []string{"categories:" + l})
	}
	for _, gv := range opts.GameVersions {
		facets = append(facets, []string{"versions:" + gv})
	}
	facetsJSON, err := json.Marshal(facets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search facets: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("facets", string(facetsJSON))
	q.Set("limit", fmt.Sprintf("%d", limit))

	var results SearchResults
	if err := c.getJSON(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Project fetches a single project by slug or id.
func (c *Client) Project(ctx context.Context, slug string) (*Project, error) {
	var p Project
	if err := c.getJSON(ctx, "/project/"+url.PathEscape(slug), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Versions fetches all versions of a project, newest first.
func (c *Client) Versions(ctx context.Context, slug string) ([]Version, error) {
	var versions []Version
	if err := c.getJSON(ctx, "/project/"+url.PathEscape(slug)+"/version", nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Download streams a version file to disk via w.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %s", resp.Status)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download interrupted: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", u).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api request %s failed with status %s: %s", path, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode api response: %w", err)
	}
	return nil
}
