package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/aide-portal/internal/models"
)

const (
	profileModules  = "price,summaryProfile,assetProfile"
	snapshotModules = "price,summaryProfile"
)

// ISOMillis is the timestamp layout used in snapshot payloads.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// flexNumber decodes either a bare number or a {"raw": n, "fmt": "..."} object.
type flexNumber struct {
	Value *float64
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			Raw *float64 `json:"raw"`
		}
		if err := json.Unmarshal(b, &obj); err == nil {
			n.Value = obj.Raw
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// Strings and other shapes are treated as absent
		return nil
	}
	n.Value = &f
	return nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryNode `json:"result"`
	} `json:"quoteSummary"`
}

type quoteSummaryNode struct {
	Price          *priceModule   `json:"price"`
	SummaryProfile *profileModule `json:"summaryProfile"`
	AssetProfile   *profileModule `json:"assetProfile"`
}

type priceModule struct {
	Symbol                     string     `json:"symbol"`
	LongName                   string     `json:"longName"`
	ShortName                  string     `json:"shortName"`
	ExchangeName               string     `json:"exchangeName"`
	Currency                   string     `json:"currency"`
	RegularMarketPrice         flexNumber `json:"regularMarketPrice"`
	RegularMarketChange        flexNumber `json:"regularMarketChange"`
	RegularMarketChangePercent flexNumber `json:"regularMarketChangePercent"`
	RegularMarketTime          flexNumber `json:"regularMarketTime"`
}

type profileModule struct {
	Address1            string         `json:"address1"`
	City                string         `json:"city"`
	State               string         `json:"state"`
	Region              string         `json:"region"`
	Country             string         `json:"country"`
	Website             string         `json:"website"`
	Industry            string         `json:"industry"`
	Sector              string         `json:"sector"`
	LongBusinessSummary string         `json:"longBusinessSummary"`
	FullTimeEmployees   flexNumber     `json:"fullTimeEmployees"`
	CompanyOfficers     []officerEntry `json:"companyOfficers"`
}

type officerEntry struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// QuoteSummary fetches the richest profile (industry, sector, headquarters,
// website, officers) for ticker, trying each configured mirror in turn.
func (c *Client) QuoteSummary(ctx context.Context, ticker string) Result[*models.CompanyProfile] {
	node := c.quoteSummary(ctx, ticker, profileModules)
	if !node.OK() {
		return Result[*models.CompanyProfile]{Status: node.Status, Err: node.Err}
	}
	profile := mapQuoteSummaryProfile(node.Value, ticker)
	if profile == nil {
		return NotFound[*models.CompanyProfile]()
	}
	return Found(profile)
}

// quoteSummary walks the mirrors. Auth refusals (401/403) and every other
// non-OK answer move on to the next mirror; only when every mirror errored
// is the result Failed.
func (c *Client) quoteSummary(ctx context.Context, ticker, modules string) Result[*quoteSummaryNode] {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return NotFound[*quoteSummaryNode]()
	}

	var errs []error
	for _, host := range c.cfg.QuoteSummaryHosts {
		u := strings.TrimRight(host, "/") + "/v10/finance/quoteSummary/" + url.PathEscape(ticker) + "?modules=" + modules

		var payload quoteSummaryResponse
		if err := c.getJSON(ctx, u, &payload); err != nil {
			errs = append(errs, err)
			var se *StatusError
			if errors.As(err, &se) && se.IsAuthError() {
				c.logger.Debug().Str("ticker", ticker).Str("host", host).Int("status", se.StatusCode).Msg("quote summary mirror refused, trying next")
			} else {
				c.logger.Warn().Str("ticker", ticker).Str("host", host).Err(err).Msg("quote summary mirror failed")
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if len(payload.QuoteSummary.Result) == 0 {
			continue
		}
		return Found(&payload.QuoteSummary.Result[0])
	}

	if len(errs) > 0 && len(errs) >= len(c.cfg.QuoteSummaryHosts) {
		return Failed[*quoteSummaryNode](errors.Join(errs...))
	}
	return NotFound[*quoteSummaryNode]()
}

func mapQuoteSummaryProfile(node *quoteSummaryNode, fallbackTicker string) *models.CompanyProfile {
	if node == nil || (node.Price == nil && node.SummaryProfile == nil && node.AssetProfile == nil) {
		return nil
	}
	price := node.Price
	if price == nil {
		price = &priceModule{}
	}
	summary, asset := node.SummaryProfile, node.AssetProfile

	symbol := strings.TrimSpace(price.Symbol)
	if symbol == "" {
		symbol = fallbackTicker
	}

	profile := &models.CompanyProfile{
		Symbol:       symbol,
		LongName:     firstNonEmpty(price.LongName, price.ShortName),
		ShortName:    price.ShortName,
		Exchange:     price.ExchangeName,
		Industry:     firstNonEmpty(summary.industry(), asset.industry()),
		Sector:       firstNonEmpty(summary.sector(), asset.sector()),
		Headquarters: firstNonEmpty(formatHeadquarters(summary), formatHeadquarters(asset)),
		Website:      NormalizeWebsite(firstNonEmpty(summary.website(), asset.website())),
	}

	if asset != nil {
		for _, o := range asset.CompanyOfficers {
			officer := models.Officer{Name: strings.TrimSpace(o.Name), Title: strings.TrimSpace(o.Title)}
			if !officer.IsZero() {
				profile.Officers = append(profile.Officers, officer)
			}
		}
	}
	return profile
}

// formatHeadquarters joins street, city, state (or region) and country.
func formatHeadquarters(p *profileModule) string {
	if p == nil {
		return ""
	}
	return joinNonEmpty(", ", p.Address1, p.City, firstNonEmpty(p.State, p.Region), p.Country)
}

func mapQuoteSummarySnapshot(node *quoteSummaryNode, ticker string, now time.Time) *models.MarketSnapshot {
	price := node.Price
	if price == nil {
		price = &priceModule{}
	}
	snap := &models.MarketSnapshot{
		Ticker:              firstNonEmpty(price.Symbol, ticker),
		ShortName:           optString(price.ShortName),
		LongName:            optString(price.LongName),
		Exchange:            optString(price.ExchangeName),
		Currency:            optString(price.Currency),
		MarketPrice:         price.RegularMarketPrice.Value,
		MarketChange:        price.RegularMarketChange.Value,
		MarketChangePercent: price.RegularMarketChangePercent.Value,
		MarketTime:          epochString(price.RegularMarketTime.Value),
		FetchTimestamp:      now.UTC().Format(ISOMillis),
	}
	if p := node.SummaryProfile; p != nil {
		snap.Industry = optString(p.Industry)
		snap.Sector = optString(p.Sector)
		snap.Website = optString(p.Website)
		snap.Headquarters = optString(joinNonEmpty(", ", p.State, p.City, p.Country))
		snap.Summary = optString(p.LongBusinessSummary)
		if v := p.FullTimeEmployees.Value; v != nil {
			n := int64(*v)
			snap.Employees = &n
		}
	}
	return snap
}

func (p *profileModule) industry() string {
	if p == nil {
		return ""
	}
	return p.Industry
}

func (p *profileModule) sector() string {
	if p == nil {
		return ""
	}
	return p.Sector
}

func (p *profileModule) website() string {
	if p == nil {
		return ""
	}
	return p.Website
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func optString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func epochString(v *float64) *string {
	if v == nil {
		return nil
	}
	s := time.Unix(int64(*v), 0).UTC().Format(ISOMillis)
	return &s
}
