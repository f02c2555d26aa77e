// Package symbols turns user-supplied identifiers into canonical exchange tickers.
package symbols

import (
	"regexp"
	"strings"
)

// TokyoSuffix is appended to bare four-digit Tokyo Stock Exchange codes.
const TokyoSuffix = ".T"

var (
	localCodePattern    = regexp.MustCompile(`^\d{4}$`)
	suffixedCodePattern = regexp.MustCompile(`^\d{4}\.[A-Z]+$`)
	latinTickerPattern  = regexp.MustCompile(`^[A-Z]{1,5}$`)
	tickerLikePattern   = regexp.MustCompile(`^[0-9A-Za-z.\-:]+$`)
)

// NormalizeTicker maps raw input to its canonical ticker form.
// First match wins:
//   - "9831"   -> "9831.T"
//   - "9831.t" -> "9831.T"
//   - "aapl"   -> "AAPL"
//   - anything else is returned trimmed and otherwise unchanged
//
// NormalizeTicker(NormalizeTicker(s)) == NormalizeTicker(s) for all s.
func NormalizeTicker(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	upper := strings.ToUpper(trimmed)
	switch {
	case localCodePattern.MatchString(upper):
		return upper + TokyoSuffix
	case suffixedCodePattern.MatchString(upper):
		return upper
	case latinTickerPattern.MatchString(upper):
		return upper
	}
	return trimmed
}

// IsTickerLike reports whether s only uses characters that appear in tickers.
func IsTickerLike(s string) bool {
	return tickerLikePattern.MatchString(s)
}

// IsTokyoSymbol reports whether a symbol carries the Tokyo exchange suffix.
func IsTokyoSymbol(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(strings.TrimSpace(symbol)), TokyoSuffix)
}

// BaseCode strips any exchange suffix ("8058.T" -> "8058").
func BaseCode(symbol string) string {
	if idx := strings.Index(symbol, "."); idx > 0 {
		return symbol[:idx]
	}
	return symbol
}
