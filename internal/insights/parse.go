package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/bobmcallan/aide-portal/internal/models"
)

var (
	// greedyObject spans from the first "{" to the last "}".
	greedyObject = regexp.MustCompile(`(?s)\{.*\}`)
	// firstObject is the first flat brace block.
	firstObject = regexp.MustCompile(`(?s)\{.*?\}`)
)

// analysis is the model's answer after field-level decoding.
type analysis struct {
	Company         string
	Ticker          string
	Founded         string
	Representative  string
	Location        string
	Capital         string
	LastUpdated     string
	Strengths       []string
	Risks           []string
	Outlook         []string
	Score           float64
	Commentary      string
	AnalysisSummary string
	Website         string

	hasScore bool
}

// extractObject returns the greedy {...} span of text, or ErrUnparseable.
func extractObject(text string) (string, error) {
	m := greedyObject.FindString(text)
	if m == "" {
		return "", ErrUnparseable
	}
	return m, nil
}

// decodeObject unmarshals raw into a field map, repairing malformed JSON
// (trailing commas, single quotes, unclosed arrays) before giving up.
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		return fields, nil
	}

	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if err := json.Unmarshal([]byte(repaired), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return fields, nil
}

// parseAnalysis extracts the model's JSON answer and decodes it field by
// field. It fails only when no object can be decoded.
func parseAnalysis(text string) (*analysis, error) {
	raw, err := extractObject(text)
	if err != nil {
		return nil, err
	}
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	a := &analysis{
		Company:         stringField(fields, "company"),
		Ticker:          stringField(fields, "ticker"),
		Founded:         stringField(fields, "founded"),
		Representative:  stringField(fields, "representative"),
		Location:        stringField(fields, "location"),
		Capital:         stringField(fields, "capital"),
		LastUpdated:     stringField(fields, "lastUpdated"),
		Strengths:       listField(fields, "strengths"),
		Risks:           listField(fields, "risks"),
		Outlook:         listField(fields, "outlook"),
		Commentary:      stringField(fields, "commentary"),
		AnalysisSummary: stringField(fields, "analysisSummary"),
		Website:         stringField(fields, "website"),
	}
	a.Score, a.hasScore = numberField(fields, "score")
	return a, nil
}

// validateAnalysis rejects answers missing any required field or carrying a
// non-numeric score. The representative is optional.
func validateAnalysis(a *analysis) error {
	var missing []string
	for name, v := range map[string]string{
		"company":         a.Company,
		"location":        a.Location,
		"capital":         a.Capital,
		"commentary":      a.Commentary,
		"analysisSummary": a.AnalysisSummary,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	for name, v := range map[string][]string{"strengths": a.Strengths, "risks": a.Risks, "outlook": a.Outlook} {
		if len(v) == 0 {
			missing = append(missing, name)
		}
	}
	if !a.hasScore {
		missing = append(missing, "score")
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrInvalidResponse, strings.Join(missing, ", "))
	}
	return nil
}

// record converts a validated answer into an insight record.
func (a *analysis) record() *models.InsightRecord {
	return &models.InsightRecord{
		Company:         a.Company,
		Ticker:          a.Ticker,
		Founded:         a.Founded,
		Representative:  a.Representative,
		Location:        a.Location,
		Capital:         a.Capital,
		LastUpdated:     a.LastUpdated,
		Strengths:       a.Strengths,
		Risks:           a.Risks,
		Outlook:         a.Outlook,
		Score:           int(math.Round(a.Score)),
		Commentary:      a.Commentary,
		AnalysisSummary: a.AnalysisSummary,
		Website:         a.Website,
	}
}

// inference is the model's answer to a ticker lookup.
type inference struct {
	Ticker  string `json:"ticker"`
	Company string `json:"company"`
}

// parseInference leniently decodes the first brace block. Any failure yields
// an empty inference.
func parseInference(text string) inference {
	raw := firstObject.FindString(text)
	if raw == "" {
		return inference{}
	}
	var out inference
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		repaired, rerr := jsonrepair.RepairJSON(raw)
		if rerr != nil || json.Unmarshal([]byte(repaired), &out) != nil {
			return inference{}
		}
	}
	out.Ticker = strings.TrimSpace(out.Ticker)
	out.Company = strings.TrimSpace(out.Company)
	return out
}

func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// listField accepts an array of strings; blank and non-string items are dropped.
func listField(fields map[string]json.RawMessage, name string) []string {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// numberField requires a JSON number. Numeric strings are rejected.
func numberField(fields map[string]json.RawMessage, name string) (float64, bool) {
	raw, ok := fields[name]
	if !ok {
		return 0, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}
