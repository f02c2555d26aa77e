package symbols

import "strings"

// Alias is a canonical (ticker, company) pair for a well-known identifier.
type Alias struct {
	Ticker  string
	Company string
}

// aliases short-circuits ambiguous names before any network call. Keys are lowercase.
// 三井商事 is a common misnomer for 三井物産 and must not resolve to an unrelated entity.
var aliases = map[string]Alias{
	"三井商事":        {Ticker: "8031.T", Company: "三井物産"},
	"三井物産":        {Ticker: "8031.T", Company: "三井物産"},
	"mitsui & co": {Ticker: "8031.T", Company: "三井物産"},
	"8031":        {Ticker: "8031.T", Company: "三井物産"},
	"8031.t":      {Ticker: "8031.T", Company: "三井物産"},

	"三菱商事":                   {Ticker: "8058.T", Company: "三菱商事"},
	"mitsubishi corporation": {Ticker: "8058.T", Company: "三菱商事"},
	"8058":                   {Ticker: "8058.T", Company: "三菱商事"},
	"8058.t":                 {Ticker: "8058.T", Company: "三菱商事"},

	"伊藤忠商事":  {Ticker: "8001.T", Company: "伊藤忠商事"},
	"itochu": {Ticker: "8001.T", Company: "伊藤忠商事"},
	"8001":   {Ticker: "8001.T", Company: "伊藤忠商事"},
	"8001.t": {Ticker: "8001.T", Company: "伊藤忠商事"},

	"8053":   {Ticker: "8053.T", Company: "住友商事"},
	"8053.t": {Ticker: "8053.T", Company: "住友商事"},

	"スカイマーク":  {Ticker: "9204.T", Company: "スカイマーク"},
	"skymark": {Ticker: "9204.T", Company: "スカイマーク"},
	"9204":    {Ticker: "9204.T", Company: "スカイマーク"},
	"9204.t":  {Ticker: "9204.T", Company: "スカイマーク"},
}

// LookupAlias returns the alias registered for identifier (case-insensitive).
func LookupAlias(identifier string) (Alias, bool) {
	a, ok := aliases[strings.ToLower(strings.TrimSpace(identifier))]
	return a, ok
}

// Hint is everything derivable from the raw identifier without I/O.
type Hint struct {
	// Normalized is the trimmed identifier.
	Normalized string
	// TickerLike is the normalized ticker when the identifier looks like one.
	TickerLike string
	// HintTicker is the alias ticker, else TickerLike.
	HintTicker string
	// HintCompany is the alias company name, if any.
	HintCompany string
	// CacheKey is the lowercased HintTicker, or the lowercased identifier.
	CacheKey string
}

// ResolveHint applies the normalizer and alias table to a raw identifier.
func ResolveHint(identifier string) Hint {
	h := Hint{Normalized: strings.TrimSpace(identifier)}
	if h.Normalized == "" {
		return h
	}
	if IsTickerLike(h.Normalized) {
		h.TickerLike = NormalizeTicker(h.Normalized)
	}

	alias, ok := LookupAlias(h.Normalized)
	if !ok && h.TickerLike != "" {
		alias, ok = LookupAlias(h.TickerLike)
	}
	if ok {
		h.HintTicker = alias.Ticker
		h.HintCompany = alias.Company
	} else {
		h.HintTicker = h.TickerLike
	}

	if h.HintTicker != "" {
		h.CacheKey = strings.ToLower(h.HintTicker)
	} else {
		h.CacheKey = strings.ToLower(h.Normalized)
	}
	return h
}
