// Package wikipedia finds a company's representative in the infobox of its
// MediaWiki article.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/bobmcallan/aide-portal/internal/wikitext"
)

const titlesPerQuery = 3

var (
	parentheticalPattern = regexp.MustCompile(`（.*?）`)
	tokyoSuffixPattern   = regexp.MustCompile(`(?i)\.T$`)
)

// Client searches articles and extracts the representative from their wikitext.
type Client struct {
	enabled    bool
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client. When cfg.Enabled is false every lookup
// returns no result without touching the network.
func NewClient(logger *common.Logger, cfg *config.WikipediaConfig) *Client {
	return &Client{
		enabled:    cfg.Enabled && cfg.Endpoint != "",
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		logger:     logger,
	}
}

// Enabled reports whether lookups reach the network.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Representative searches for the company article and returns the first
// representative found in the top results of any query variant.
func (c *Client) Representative(ctx context.Context, companyName, ticker string) (models.Officer, bool) {
	if !c.Enabled() {
		return models.Officer{}, false
	}

	for _, query := range QueryVariants(companyName, ticker) {
		titles, err := c.search(ctx, query)
		if err != nil {
			c.logger.Warn().Str("query", query).Err(err).Msg("wikipedia search failed")
			continue
		}
		for _, title := range titles {
			text, err := c.wikitext(ctx, title)
			if err != nil {
				c.logger.Warn().Str("title", title).Err(err).Msg("wikipedia parse failed")
				continue
			}
			if officer, ok := wikitext.ExtractRepresentative(text); ok {
				c.logger.Debug().Str("title", title).Str("name", officer.Name).Msg("wikipedia representative found")
				return officer, true
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	return models.Officer{}, false
}

// QueryVariants builds the de-duplicated search strings tried for a company:
// the name as given, without parenthetical notes, without 株式会社, with a
// trailing 株式会社, and the bare ticker code.
func QueryVariants(companyName, ticker string) []string {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return nil
	}
	raw := []string{
		name,
		strings.TrimSpace(parentheticalPattern.ReplaceAllString(name, "")),
		strings.TrimSpace(strings.ReplaceAll(name, "株式会社", "")),
		strings.TrimSpace(name + " 株式会社"),
		tokyoSuffixPattern.ReplaceAllString(strings.TrimSpace(ticker), ""),
	}

	seen := make(map[string]bool, len(raw))
	variants := make([]string, 0, len(raw))
	for _, q := range raw {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		variants = append(variants, q)
	}
	return variants
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type parseResponse struct {
	Parse struct {
		Wikitext string `json:"wikitext"`
	} `json:"parse"`
}

func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"action":        {"query"},
		"list":          {"search"},
		"srsearch":      {query},
		"srlimit":       {"3"},
		"format":        {"json"},
		"formatversion": {"2"},
		"redirects":     {"1"},
	}
	var payload searchResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}

	titles := make([]string, 0, titlesPerQuery)
	for _, s := range payload.Query.Search {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		titles = append(titles, s.Title)
		if len(titles) == titlesPerQuery {
			break
		}
	}
	return titles, nil
}

func (c *Client) wikitext(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":        {"parse"},
		"page":          {title},
		"prop":          {"wikitext"},
		"format":        {"json"},
		"formatversion": {"2"},
		"redirects":     {"1"},
	}
	var payload parseResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return "", err
	}
	return payload.Parse.Wikitext, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
