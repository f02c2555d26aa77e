package insights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/bobmcallan/aide-portal/internal/wikitext"
)

// Representative source names, in descending priority.
const (
	SourceOverride      = "override"
	SourceRegistry      = "registry"
	SourceWikipedia     = "wikipedia"
	SourceMarketProfile = "market_profile"
	SourceDataset       = "dataset"
	SourceModel         = "model"
	SourceUnconfirmed   = "unconfirmed"
)

// RepresentativeSource is one candidate value for the company representative.
// Sources with RequiresCorroboration are only accepted when another present
// source agrees with them.
type RepresentativeSource struct {
	Name                  string
	Priority              int
	Value                 string
	RequiresCorroboration bool
}

// representativeRules is the priority table. Lower Priority wins.
var representativeRules = []RepresentativeSource{
	{Name: SourceOverride, Priority: 10},
	{Name: SourceRegistry, Priority: 20},
	{Name: SourceWikipedia, Priority: 30},
	{Name: SourceMarketProfile, Priority: 40},
	{Name: SourceDataset, Priority: 50},
	{Name: SourceModel, Priority: 60, RequiresCorroboration: true},
}

// RepresentativeCandidates builds the rule table populated with values keyed
// by source name. Values are sanitized; unknown names are ignored.
func RepresentativeCandidates(values map[string]string) []RepresentativeSource {
	sources := make([]RepresentativeSource, 0, len(representativeRules))
	for _, rule := range representativeRules {
		rule.Value = wikitext.Sanitize(values[rule.Name])
		sources = append(sources, rule)
	}
	return sources
}

// ReconcileRepresentative picks the final representative.
// The highest-priority present source wins. A source that requires
// corroboration is skipped unless another present source has the same
// normalized value. With no acceptable source the unconfirmed label for year
// is returned.
func ReconcileRepresentative(sources []RepresentativeSource, year int) (value, source string) {
	ordered := append([]RepresentativeSource(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	for i, s := range ordered {
		if s.Value == "" {
			continue
		}
		if !s.RequiresCorroboration || corroborated(ordered, i) {
			return s.Value, s.Name
		}
	}
	return UnconfirmedLabel(year), SourceUnconfirmed
}

func corroborated(sources []RepresentativeSource, idx int) bool {
	want := NormalizeRepresentative(sources[idx].Value)
	if want == "" {
		return false
	}
	for i, s := range sources {
		if i == idx || s.Value == "" || s.RequiresCorroboration {
			continue
		}
		if NormalizeRepresentative(s.Value) == want {
			return true
		}
	}
	return false
}

// UnconfirmedLabel is the placeholder shown when no source can be trusted.
func UnconfirmedLabel(year int) string {
	return fmt.Sprintf("情報未確認（%d年時点）", year)
}

var parentheticalTitle = regexp.MustCompile(`（[^）]*）|\([^)]*\)`)

// NormalizeRepresentative reduces a representative string to a comparable
// form: parenthetical titles, whitespace and punctuation removed, lowercased.
func NormalizeRepresentative(s string) string {
	s = parentheticalTitle.ReplaceAllString(s, "")
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// primaryOfficerPatterns rank officer titles, most senior first.
var primaryOfficerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`代表取締役社長`),
	regexp.MustCompile(`代表取締役`),
	regexp.MustCompile(`(?i)CEO`),
	regexp.MustCompile(`(?i)Chief Executive Officer`),
	regexp.MustCompile(`社長`),
}

// SelectPrimaryOfficer returns the officer whose title matches the most
// senior pattern, else the first officer with a name.
func SelectPrimaryOfficer(officers []models.Officer) (models.Officer, bool) {
	for _, pattern := range primaryOfficerPatterns {
		for _, o := range officers {
			if o.Name != "" && o.Title != "" && pattern.MatchString(o.Title) {
				return o, true
			}
		}
	}
	for _, o := range officers {
		if o.Name != "" {
			return o, true
		}
	}
	return models.Officer{}, false
}
