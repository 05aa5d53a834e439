// Package rawg provides a client for the RAWG video game catalog API,
// used for fuzzy title search and direct-ID metadata lookups.
package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Developer is one studio credited on a game.
type Developer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Game represents a single RAWG catalog record.
type Game struct {
	ID              int64       `json:"id"`
	Slug            string      `json:"slug"`
	Name            string      `json:"name"`
	Description     string      `json:"description_raw"`
	BackgroundImage string      `json:"background_image"`
	Released        string      `json:"released"`
	Rating          float64     `json:"rating"`
	Developers      []Developer `json:"developers"`
}

// SearchResponse models the RAWG paginated search payload.
type SearchResponse struct {
	Count   int    `json:"count"`
	Results []Game `json:"results"`
}

// Searcher defines the catalog operations used by metadata resolution.
type Searcher interface {
	Search(ctx context.Context, query string) (*Game, error)
	GetByID(ctx context.Context, id int64) (*Game, error)
}

// Client provides access to the RAWG API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a RAWG client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("rawg api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("rawg base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search returns the single most relevant catalog match for a title, or
// nil when the search produces no results.
func (c *Client) Search(ctx context.Context, query string) (*Game, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/games")
	if err != nil {
		return nil, fmt.Errorf("parse rawg url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("search", query)
	params.Set("page_size", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rawg search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rawg response: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	return &payload.Results[0], nil
}

// GetByID fetches full game details by RAWG ID.
func (c *Client) GetByID(ctx context.Context, id int64) (*Game, error) {
	if id <= 0 {
		return nil, errors.New("game id must be positive")
	}
	endpoint, err := url.Parse(c.baseURL + "/games/" + strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("parse rawg url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rawg game details returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Game
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode game details: %w", err)
	}
	return &payload, nil
}

// PrimaryDeveloper returns the first credited developer name, or empty.
func (g *Game) PrimaryDeveloper() string {
	if g == nil || len(g.Developers) == 0 {
		return ""
	}
	return g.Developers[0].Name
}
