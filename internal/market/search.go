package market

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/bobmcallan/aide-portal/internal/symbols"
)

// maxRefineDepth bounds how many rounds of name-based re-querying are tried.
const maxRefineDepth = 2

// tokyoExchanges are exchange codes that denote a Tokyo listing.
var tokyoExchanges = map[string]bool{
	"TYO": true,
	"JPX": true,
	"TSE": true,
}

// SearchHit is one candidate from autocomplete or full-text search.
type SearchHit struct {
	Symbol          string
	ShortName       string
	LongName        string
	Exchange        string
	ExchangeDisplay string
}

// IsTokyo reports whether the hit is listed on the Tokyo market, judged by
// exchange code, exchange display name or the symbol suffix.
func (h SearchHit) IsTokyo() bool {
	if tokyoExchanges[strings.ToUpper(strings.TrimSpace(h.Exchange))] {
		return true
	}
	if strings.Contains(strings.ToLower(h.ExchangeDisplay), "tokyo") {
		return true
	}
	return symbols.IsTokyoSymbol(h.Symbol)
}

func (h SearchHit) profile() *models.CompanyProfile {
	return &models.CompanyProfile{
		Symbol:    strings.TrimSpace(h.Symbol),
		LongName:  firstNonEmpty(h.LongName, h.ShortName),
		ShortName: strings.TrimSpace(h.ShortName),
		Exchange:  firstNonEmpty(h.Exchange, h.ExchangeDisplay),
	}
}

type autocompleteResponse struct {
	ResultSet struct {
		Result []struct {
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Exch     string `json:"exch"`
			ExchDisp string `json:"exchDisp"`
		} `json:"Result"`
	} `json:"ResultSet"`
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		ExchDisp  string `json:"exchDisp"`
	} `json:"quotes"`
}

// Autocomplete queries the autocomplete endpoint.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]SearchHit, error) {
	if c.cfg.AutocompleteURL == "" {
		return nil, nil
	}
	u := c.cfg.AutocompleteURL + "?query=" + url.QueryEscape(query) + "&region=1&lang=en"
	var payload autocompleteResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(payload.ResultSet.Result))
	for _, r := range payload.ResultSet.Result {
		if strings.TrimSpace(r.Symbol) == "" {
			continue
		}
		hits = append(hits, SearchHit{Symbol: r.Symbol, LongName: r.Name, Exchange: r.Exch, ExchangeDisplay: r.ExchDisp})
	}
	return hits, nil
}

// Search queries the full-text search endpoint.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	if c.cfg.SearchURL == "" {
		return nil, nil
	}
	u := c.cfg.SearchURL + "?q=" + url.QueryEscape(query) + "&quotesCount=10&newsCount=0"
	var payload searchResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(payload.Quotes))
	for _, q := range payload.Quotes {
		if strings.TrimSpace(q.Symbol) == "" {
			continue
		}
		hits = append(hits, SearchHit{Symbol: q.Symbol, ShortName: q.ShortName, LongName: q.LongName, Exchange: q.Exchange, ExchangeDisplay: q.ExchDisp})
	}
	return hits, nil
}

// SearchProfile resolves a free-text query to a thin profile.
//
// Autocomplete is tried first, then full-text search. Within a hit list an
// exact match on expectedTicker wins outright, otherwise a Tokyo listing is
// preferred. When neither list yields a preferred hit, the long and short
// names returned by search are fed back into autocomplete. The first
// non-preferred hit is the last resort.
func (c *Client) SearchProfile(ctx context.Context, query, expectedTicker string) Result[*models.CompanyProfile] {
	query = strings.TrimSpace(query)
	if query == "" {
		return NotFound[*models.CompanyProfile]()
	}

	attempted := map[string]bool{strings.ToLower(query): true}
	var fallback *SearchHit
	var errs []error

	autoHits, err := c.Autocomplete(ctx, query)
	if err != nil {
		c.logger.Warn().Str("query", query).Err(err).Msg("autocomplete failed")
		errs = append(errs, err)
	}
	if hit, ok := choosePreferred(autoHits, expectedTicker); ok {
		return Found(hit.profile())
	}
	if len(autoHits) > 0 {
		fallback = &autoHits[0]
	}

	searchHits, err := c.Search(ctx, query)
	if err != nil {
		c.logger.Warn().Str("query", query).Err(err).Msg("search failed")
		errs = append(errs, err)
	}
	if hit, ok := choosePreferred(searchHits, expectedTicker); ok {
		return Found(hit.profile())
	}
	if fallback == nil && len(searchHits) > 0 {
		fallback = &searchHits[0]
	}

	if hit, ok := c.refineProfileFromQuoteNames(ctx, candidateNames(searchHits), expectedTicker, attempted, 0); ok {
		return Found(hit.profile())
	}

	if fallback != nil {
		return Found(fallback.profile())
	}
	if len(errs) > 0 {
		return Failed[*models.CompanyProfile](errors.Join(errs...))
	}
	return NotFound[*models.CompanyProfile]()
}

// refineProfileFromQuoteNames re-queries autocomplete with each candidate name
// not yet attempted, recursing into the names those answers return.
func (c *Client) refineProfileFromQuoteNames(ctx context.Context, names []string, expectedTicker string, attempted map[string]bool, depth int) (SearchHit, bool) {
	if depth >= maxRefineDepth {
		return SearchHit{}, false
	}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || attempted[key] {
			continue
		}
		attempted[key] = true
		if ctx.Err() != nil {
			return SearchHit{}, false
		}

		hits, err := c.Autocomplete(ctx, name)
		if err != nil {
			c.logger.Debug().Str("query", name).Err(err).Msg("refine autocomplete failed")
			continue
		}
		if hit, ok := choosePreferred(hits, expectedTicker); ok {
			return hit, true
		}
		if hit, ok := c.refineProfileFromQuoteNames(ctx, candidateNames(hits), expectedTicker, attempted, depth+1); ok {
			return hit, true
		}
	}
	return SearchHit{}, false
}

// choosePreferred returns an exact symbol match, else the first Tokyo listing.
func choosePreferred(hits []SearchHit, expectedTicker string) (SearchHit, bool) {
	if expected := strings.TrimSpace(expectedTicker); expected != "" {
		for _, h := range hits {
			if strings.EqualFold(strings.TrimSpace(h.Symbol), expected) {
				return h, true
			}
		}
	}
	for _, h := range hits {
		if h.IsTokyo() {
			return h, true
		}
	}
	return SearchHit{}, false
}

func candidateNames(hits []SearchHit) []string {
	var names []string
	for _, h := range hits {
		for _, n := range []string{h.LongName, h.ShortName} {
			if strings.TrimSpace(n) != "" {
				names = append(names, n)
			}
		}
	}
	return names
}
