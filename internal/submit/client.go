// Package submit holds the client that places wagers with the external
// sportsbook API.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/internal/domain"
)

// rateLimitKey identifies the sportsbook submission budget in the shared
// rate limiter.
const rateLimitKey = "sportsbook:submit"

// ClientConfig holds connection parameters for the sportsbook API.
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxPerMinute int
}

// Client submits wagers to the sportsbook API. It satisfies slip.Submitter.
type Client struct {
	baseURL      string
	apiKey       string
	maxPerMinute int
	limiter      domain.RateLimiter
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a sportsbook submission client. The rate limiter caps
// outbound submissions across every session.
func NewClient(cfg ClientConfig, limiter domain.RateLimiter, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxPerMinute := cfg.MaxPerMinute
	if maxPerMinute == 0 {
		maxPerMinute = 10
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		maxPerMinute: maxPerMinute,
		limiter:      limiter,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "sportsbook")),
	}
}

// wagerRequest is the wire shape of one submission.
type wagerRequest struct {
	Legs   []domain.LegForSubmission `json:"legs"`
	Amount decimal.Decimal           `json:"amount"`
}

// wagerResponse is the sportsbook's reply envelope.
type wagerResponse struct {
	Accepted bool   `json:"accepted"`
	TicketID string `json:"ticket_id"`
	Message  string `json:"message"`
}

// SubmitWager posts the legs and amount to the sportsbook. A depleted rate
// budget fails the submission without touching the network so the caller's
// legs stay intact for retry.
func (c *Client) SubmitWager(ctx context.Context, legs []domain.LegForSubmission, amount decimal.Decimal) (domain.SubmitResult, error) {
	allowed, err := c.limiter.Allow(ctx, rateLimitKey, c.maxPerMinute, time.Minute)
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit: rate limit check: %w", err)
	}
	if !allowed {
		return domain.SubmitResult{
			Message: "too many submissions, try again shortly",
		}, fmt.Errorf("submit: %w", domain.ErrRateLimited)
	}

	payload, err := json.Marshal(wagerRequest{Legs: legs, Amount: amount})
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit: marshal wager: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/wagers", bytes.NewReader(payload))
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("submit: read response: %w", err)
	}

	var wr wagerResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &wr); err != nil {
			return domain.SubmitResult{}, fmt.Errorf("submit: decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := wr.Message
		if msg == "" {
			msg = "sportsbook rejected the wager"
		}
		return domain.SubmitResult{Message: msg},
			fmt.Errorf("submit: HTTP %d: %s", resp.StatusCode, msg)
	}

	if !wr.Accepted {
		msg := wr.Message
		if msg == "" {
			msg = "wager not accepted"
		}
		return domain.SubmitResult{Message: msg}, fmt.Errorf("submit: %s", msg)
	}

	c.logger.InfoContext(ctx, "submit: wager accepted",
		slog.String("ticket_id", wr.TicketID),
		slog.Int("legs", len(legs)),
		slog.String("amount", amount.String()),
	)

	return domain.SubmitResult{
		Success: true,
		Message: wr.Message,
	}, nil
}
