// Package market resolves company profiles and quotes from Yahoo-Finance-shaped
// JSON endpoints. Every lookup is failure tolerant: upstream errors are logged
// and reported as a Failed result, never propagated as an error.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 2 << 20

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsAuthError reports whether the upstream refused the request (401/403).
func (e *StatusError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Client queries the quote-summary, quote, search and autocomplete endpoints.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
	cfg        config.MarketConfig
	clock      func() time.Time
}

// NewClient creates a market data client. A zero rate limit disables throttling.
func NewClient(logger *common.Logger, cfg *config.MarketConfig) *Client {
	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		cfg:        *cfg,
	}
}

// getJSON performs a throttled GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
