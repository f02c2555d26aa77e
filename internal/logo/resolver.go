// Package logo discovers a company logo URL from a stock-image CDN, the FMP
// profile API or the company's web domain.
package logo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
)

// Profile is the subset of an FMP company profile the pipeline uses.
type Profile struct {
	Symbol  string `json:"symbol"`
	Image   string `json:"image"`
	CEO     string `json:"ceo"`
	Website string `json:"website"`
}

// Resolver finds logo URLs. Every failure falls through silently.
type Resolver struct {
	cfg        config.LogoConfig
	httpClient *http.Client
	logger     *common.Logger
}

// NewResolver creates a logo resolver.
func NewResolver(logger *common.Logger, cfg *config.LogoConfig) *Resolver {
	return &Resolver{
		cfg:        *cfg,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		logger:     logger,
	}
}

// Resolve returns a logo URL for ticker, or "" when no source has one.
// Order: direct image probe, FMP profile image (when a key is configured),
// then a logo derived from the website domain.
func (r *Resolver) Resolve(ctx context.Context, ticker, website string) string {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))

	if symbol != "" && r.cfg.FMPImageURL != "" {
		direct := strings.TrimRight(r.cfg.FMPImageURL, "/") + "/" + url.PathEscape(symbol) + ".png"
		if r.probe(ctx, direct) {
			return direct
		}
	}

	if r.cfg.FMPAPIKey != "" {
		for _, variant := range SymbolVariants(ticker) {
			p, err := r.Profile(ctx, variant)
			if err != nil {
				r.logger.Debug().Str("symbol", variant).Err(err).Msg("FMP profile lookup failed")
				continue
			}
			if p != nil && strings.HasPrefix(p.Image, "http") {
				return p.Image
			}
		}
	}

	return r.FromWebsite(website)
}

// Profile fetches the first FMP profile for symbol. It returns (nil, nil)
// when no key is configured or the provider has no profile.
func (r *Resolver) Profile(ctx context.Context, symbol string) (*Profile, error) {
	if r.cfg.FMPAPIKey == "" || r.cfg.FMPProfileURL == "" || strings.TrimSpace(symbol) == "" {
		return nil, nil
	}

	u := strings.TrimRight(r.cfg.FMPProfileURL, "/") + "/" + url.PathEscape(symbol) + "?apikey=" + url.QueryEscape(r.cfg.FMPAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fmp profile returned %d", resp.StatusCode)
	}

	var profiles []Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("failed to decode fmp profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}

// ChiefExecutive returns the CEO named in the first FMP profile found for
// any symbol variant of ticker, or "".
func (r *Resolver) ChiefExecutive(ctx context.Context, ticker string) string {
	if r.cfg.FMPAPIKey == "" {
		return ""
	}
	for _, variant := range SymbolVariants(ticker) {
		p, err := r.Profile(ctx, variant)
		if err != nil || p == nil {
			continue
		}
		if ceo := strings.TrimSpace(p.CEO); ceo != "" {
			return ceo
		}
	}
	return ""
}

// FromWebsite builds a domain-logo URL from a company website.
func (r *Resolver) FromWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" || r.cfg.ClearbitURL == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimRight(r.cfg.ClearbitURL, "/") + "/" + u.Hostname()
}

func (r *Resolver) probe(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug().Str("url", target).Err(err).Msg("logo probe failed")
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// SymbolVariants lists the provider symbols tried for ticker: the ticker
// itself, then for "CODE.SFX" the bare code, "SFX:CODE" and "sfx:CODE".
func SymbolVariants(ticker string) []string {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil
	}
	variants := []string{strings.ToUpper(ticker)}

	prefix, suffix, found := strings.Cut(ticker, ".")
	if !found {
		return variants
	}
	if prefix != "" {
		variants = append(variants, prefix)
	}
	if prefix != "" && suffix != "" {
		variants = append(variants,
			strings.ToUpper(suffix)+":"+prefix,
			strings.ToLower(suffix)+":"+prefix,
		)
	}
	return variants
}
