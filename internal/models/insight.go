package models

import "time"

// InsightRecord is the unit returned to the dashboard and stored in the cache.
// Field names are a rendering contract and must not change.
type InsightRecord struct {
	Company         string   `json:"company"`
	Ticker          string   `json:"ticker"`
	Founded         string   `json:"founded,omitempty"`
	Representative  string   `json:"representative"`
	Location        string   `json:"location"`
	Capital         string   `json:"capital"`
	LastUpdated     string   `json:"lastUpdated"`
	Strengths       []string `json:"strengths"`
	Risks           []string `json:"risks"`
	Outlook         []string `json:"outlook"`
	Score           int      `json:"score"`
	Commentary      string   `json:"commentary"`
	AnalysisSummary string   `json:"analysisSummary"`
	Logo            string   `json:"logo,omitempty"`
	Website         string   `json:"website,omitempty"`
}

// Clone returns a deep copy so cached records are never mutated by callers.
func (r *InsightRecord) Clone() *InsightRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Strengths = append([]string(nil), r.Strengths...)
	c.Risks = append([]string(nil), r.Risks...)
	c.Outlook = append([]string(nil), r.Outlook...)
	return &c
}

// CacheEntry is a cached insight record with its write timestamp.
type CacheEntry struct {
	Key       string         `json:"key" badgerhold:"key"`
	Timestamp time.Time      `json:"timestamp"`
	Data      *InsightRecord `json:"data"`
}
