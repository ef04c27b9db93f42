// Package oddsfeed is the REST client for the upstream odds feed that
// supplies scheduled games and raw quote snapshots.
package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

// ClientConfig holds connection parameters for the odds feed API.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Books   []string
	Timeout time.Duration
}

// Client is the REST client for the odds feed API.
type Client struct {
	baseURL    string
	apiKey     string
	books      []string
	httpClient *http.Client
}

// NewClient creates a new odds feed client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		books:   cfg.Books,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListEvents returns upcoming and live games for a sport.
func (c *Client) ListEvents(ctx context.Context, sport string) ([]domain.Game, error) {
	path := fmt.Sprintf("/sports/%s/events", url.PathEscape(sport))

	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("oddsfeed: list events %s: %w", sport, err)
	}

	var events []FeedEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("oddsfeed: decode events: %w", err)
	}

	games := make([]domain.Game, 0, len(events))
	for _, e := range events {
		games = append(games, e.ToGame())
	}
	return games, nil
}

// GetEventQuotes returns the current quote snapshot rows for one event. Every
// returned quote carries the same capture timestamp.
func (c *Client) GetEventQuotes(ctx context.Context, eventID string) ([]domain.RawQuote, error) {
	path := fmt.Sprintf("/events/%s/odds", url.PathEscape(eventID))

	params := url.Values{}
	for _, book := range c.books {
		params.Add("books", book)
	}

	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("oddsfeed: get event quotes %s: %w", eventID, err)
	}

	var odds FeedEventOdds
	if err := json.Unmarshal(body, &odds); err != nil {
		return nil, fmt.Errorf("oddsfeed: decode event quotes: %w", err)
	}
	if odds.EventID == "" {
		odds.EventID = eventID
	}

	return odds.Quotes(time.Now().UTC()), nil
}

// doRequest builds, sends, and reads an HTTP GET against the feed API.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkStatus maps non-2xx HTTP status codes to appropriate errors.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr feedErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s (%s): %w", apiErr.Message, apiErr.Code, domain.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s (%s): %w", apiErr.Message, apiErr.Code, domain.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("unauthorized: %s (%s)", apiErr.Message, apiErr.Code)
	default:
		return fmt.Errorf("HTTP %d: %s (%s)", statusCode, apiErr.Message, apiErr.Code)
	}
}
