package market

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bobmcallan/aide-portal/internal/models"
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// FetchProfile resolves a known ticker: quote summary, then the quote endpoint.
func (c *Client) FetchProfile(ctx context.Context, ticker string) Result[*models.CompanyProfile] {
	return FirstFound(ctx,
		func(ctx context.Context) Result[*models.CompanyProfile] { return c.QuoteSummary(ctx, ticker) },
		func(ctx context.Context) Result[*models.CompanyProfile] { return c.Quote(ctx, ticker) },
	)
}

// NormalizeWebsite trims url and prefixes https:// when no scheme is present.
// Returns "" for blank input.
func NormalizeWebsite(url string) string {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return ""
	}
	if schemePattern.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

func (c *Client) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}
