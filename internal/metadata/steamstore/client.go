// Package steamstore provides a client for the Steam storefront
// appdetails endpoint and the library artwork CDN.
package steamstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Details is the storefront payload subset used for enrichment.
type Details struct {
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	Developers       []string `json:"developers"`
}

type appDetailsEnvelope struct {
	Success bool    `json:"success"`
	Data    Details `json:"data"`
}

// Storefront defines the operations used by metadata resolution.
type Storefront interface {
	AppDetails(ctx context.Context, appID string) (*Details, error)
	CoverURL(appID string) string
	HeroURL(appID string) string
}

// Client queries the Steam storefront API.
type Client struct {
	storeBaseURL string
	cdnBaseURL   string
	httpClient   *http.Client
}

var _ Storefront = (*Client)(nil)

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

// New creates a storefront client.
func New(storeBaseURL, cdnBaseURL string, opts ...Option) (*Client, error) {
	storeBaseURL = strings.TrimSpace(storeBaseURL)
	if storeBaseURL == "" {
		return nil, errors.New("store base url required")
	}
	cdnBaseURL = strings.TrimSpace(cdnBaseURL)
	if cdnBaseURL == "" {
		return nil, errors.New("cdn base url required")
	}
	client := &Client{
		storeBaseURL: strings.TrimRight(storeBaseURL, "/"),
		cdnBaseURL:   strings.TrimRight(cdnBaseURL, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// AppDetails fetches storefront details for a Steam app. A payload with
// success=false (delisted or region-locked apps) returns nil, nil.
func (c *Client) AppDetails(ctx context.Context, appID string) (*Details, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, errors.New("app id must not be empty")
	}
	endpoint, err := url.Parse(c.storeBaseURL + "/appdetails")
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	params := url.Values{}
	params.Set("appids", appID)
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
		return nil, fmt.Errorf("store appdetails returned %d (latency=%v)", resp.StatusCode, latency)
	}

	// The storefront keys the envelope by the requested app ID.
	var payload map[string]appDetailsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode appdetails response: %w", err)
	}
	envelope, ok := payload[appID]
	if !ok || !envelope.Success {
		return nil, nil
	}
	return &envelope.Data, nil
}

// CoverURL returns the CDN address of the portrait library capsule.
func (c *Client) CoverURL(appID string) string {
	return fmt.Sprintf("%s/%s/library_600x900_2x.jpg", c.cdnBaseURL, appID)
}

// HeroURL returns the CDN address of the library hero banner.
func (c *Client) HeroURL(appID string) string {
	return fmt.Sprintf("%s/%s/library_hero.jpg", c.cdnBaseURL, appID)
}

// PrimaryDeveloper returns the first credited developer, or empty.
func (d *Details) PrimaryDeveloper() string {
	if d == nil || len(d.Developers) == 0 {
		return ""
	}
	return d.Developers[0]
}
