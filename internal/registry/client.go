// Package registry looks up statutory filing summaries (representative, head
// office, capital) for a listed company.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/bobmcallan/aide-portal/internal/models"
)

// Client queries the company registry service. A zero-value BaseURL disables it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a registry client.
func NewClient(logger *common.Logger, cfg *config.RegistryConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		logger:     logger,
	}
}

// Enabled reports whether a registry endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Lookup fetches the registry record for ticker. It returns (nil, nil) when the
// registry has no record or is not configured. forceRefresh asks the service
// to bypass its own cache.
func (c *Client) Lookup(ctx context.Context, ticker string, forceRefresh bool) (*models.RegistryRecord, error) {
	ticker = strings.TrimSpace(ticker)
	if !c.Enabled() || ticker == "" {
		return nil, nil
	}

	u := c.baseURL + "/companies/" + url.PathEscape(ticker)
	if forceRefresh {
		u += "?refresh=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var record models.RegistryRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode registry record: %w", err)
	}
	if record == (models.RegistryRecord{}) {
		return nil, nil
	}

	c.logger.Debug().Str("ticker", ticker).Bool("refresh", forceRefresh).Msg("registry record fetched")
	return &record, nil
}
