package market

import (
	"context"
	"net/url"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/models"
)

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteEntry `json:"result"`
	} `json:"quoteResponse"`
}

type quoteEntry struct {
	Symbol                     string     `json:"symbol"`
	ShortName                  string     `json:"shortName"`
	LongName                   string     `json:"longName"`
	Exchange                   string     `json:"exchange"`
	FullExchangeName           string     `json:"fullExchangeName"`
	Currency                   string     `json:"currency"`
	RegularMarketPrice         flexNumber `json:"regularMarketPrice"`
	RegularMarketChange        flexNumber `json:"regularMarketChange"`
	RegularMarketChangePercent flexNumber `json:"regularMarketChangePercent"`
	RegularMarketTime          flexNumber `json:"regularMarketTime"`
}

// Quote fetches the thin name-only profile from the v7 quote endpoint.
func (c *Client) Quote(ctx context.Context, ticker string) Result[*models.CompanyProfile] {
	entry := c.quote(ctx, ticker)
	if !entry.OK() {
		return Result[*models.CompanyProfile]{Status: entry.Status, Err: entry.Err}
	}
	q := entry.Value
	return Found(&models.CompanyProfile{
		Symbol:    firstNonEmpty(q.Symbol, ticker),
		LongName:  firstNonEmpty(q.LongName, q.ShortName),
		ShortName: strings.TrimSpace(q.ShortName),
		Exchange:  firstNonEmpty(q.Exchange, q.FullExchangeName),
	})
}

func (c *Client) quote(ctx context.Context, ticker string) Result[*quoteEntry] {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" || c.cfg.QuoteURL == "" {
		return NotFound[*quoteEntry]()
	}

	u := c.cfg.QuoteURL + "?symbols=" + url.QueryEscape(ticker)
	var payload quoteResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("quote fallback failed")
		return Failed[*quoteEntry](err)
	}
	if len(payload.QuoteResponse.Result) == 0 {
		return NotFound[*quoteEntry]()
	}
	return Found(&payload.QuoteResponse.Result[0])
}

// Snapshot returns the company-info payload: quote summary first, then the
// quote endpoint when no mirror had the symbol.
func (c *Client) Snapshot(ctx context.Context, ticker string) Result[*models.MarketSnapshot] {
	return FirstFound(ctx,
		func(ctx context.Context) Result[*models.MarketSnapshot] {
			node := c.quoteSummary(ctx, ticker, snapshotModules)
			if !node.OK() {
				return Result[*models.MarketSnapshot]{Status: node.Status, Err: node.Err}
			}
			return Found(mapQuoteSummarySnapshot(node.Value, ticker, c.now()))
		},
		func(ctx context.Context) Result[*models.MarketSnapshot] {
			entry := c.quote(ctx, ticker)
			if !entry.OK() {
				return Result[*models.MarketSnapshot]{Status: entry.Status, Err: entry.Err}
			}
			q := entry.Value
			return Found(&models.MarketSnapshot{
				Ticker:              firstNonEmpty(q.Symbol, ticker),
				ShortName:           optString(q.ShortName),
				LongName:            optString(q.LongName),
				Exchange:            optString(q.FullExchangeName),
				Currency:            optString(q.Currency),
				MarketPrice:         q.RegularMarketPrice.Value,
				MarketChange:        q.RegularMarketChange.Value,
				MarketChangePercent: q.RegularMarketChangePercent.Value,
				MarketTime:          epochString(q.RegularMarketTime.Value),
				FetchTimestamp:      c.now().UTC().Format(ISOMillis),
			})
		},
	)
}
