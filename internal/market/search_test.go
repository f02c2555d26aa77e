package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchFixture serves canned autocomplete and search bodies keyed by query.
type searchFixture struct {
	autocomplete map[string]string
	search       map[string]string
	autoQueries  []string
}

func (f *searchFixture) server(t *testing.T) (*httptest.Server, config.MarketConfig) {
	mux := http.NewServeMux()
	mux.HandleFunc("/autoc", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		f.autoQueries = append(f.autoQueries, q)
		body, ok := f.autocomplete[q]
		if !ok {
			body = `{"ResultSet":{"Result":[]}}`
		}
		w.Write([]byte(body))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		body, ok := f.search[r.URL.Query().Get("q")]
		if !ok {
			body = `{"quotes":[]}`
		}
		w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, config.MarketConfig{AutocompleteURL: srv.URL + "/autoc", SearchURL: srv.URL + "/search"}
}

func TestSearchProfile_PrefersTokyoListing(t *testing.T) {
	f := &searchFixture{autocomplete: map[string]string{
		"Sony": `{"ResultSet":{"Result":[
			{"symbol":"SONY","name":"Sony Group Corporation","exch":"NYQ","exchDisp":"NYSE"},
			{"symbol":"6758.T","name":"Sony Group Corporation","exch":"JPX","exchDisp":"Tokyo"}]}}`,
	}}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	r := c.SearchProfile(context.Background(), "Sony", "")
	require.True(t, r.OK())
	assert.Equal(t, "6758.T", r.Value.Symbol)
	assert.Equal(t, "Sony Group Corporation", r.Value.LongName)
}

func TestSearchProfile_ExactSymbolWins(t *testing.T) {
	f := &searchFixture{autocomplete: map[string]string{
		"Sony": `{"ResultSet":{"Result":[
			{"symbol":"6758.T","name":"Sony Group Corporation","exch":"JPX"},
			{"symbol":"SONY","name":"Sony Group Corporation","exch":"NYQ"}]}}`,
	}}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	r := c.SearchProfile(context.Background(), "Sony", "sony")
	require.True(t, r.OK())
	assert.Equal(t, "SONY", r.Value.Symbol)
}

func TestSearchProfile_FallsBackToSearch(t *testing.T) {
	f := &searchFixture{search: map[string]string{
		"ノジマ": `{"quotes":[{"symbol":"7419.T","shortname":"NOJIMA CORP","longname":"Nojima Corporation","exchange":"JPX","exchDisp":"Tokyo"}]}`,
	}}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	r := c.SearchProfile(context.Background(), "ノジマ", "")
	require.True(t, r.OK())
	assert.Equal(t, "7419.T", r.Value.Symbol)
	assert.Equal(t, "Nojima Corporation", r.Value.LongName)
	assert.Equal(t, "NOJIMA CORP", r.Value.ShortName)
}

func TestSearchProfile_RefinesFromSearchNames(t *testing.T) {
	f := &searchFixture{
		search: map[string]string{
			"bic camera": `{"quotes":[{"symbol":"BCDMF","shortname":"BIC CAMERA","longname":"Bic Camera Inc.","exchange":"PNK"}]}`,
		},
		autocomplete: map[string]string{
			"Bic Camera Inc.": `{"ResultSet":{"Result":[{"symbol":"3048.T","name":"Bic Camera Inc.","exch":"JPX"}]}}`,
		},
	}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	r := c.SearchProfile(context.Background(), "bic camera", "")
	require.True(t, r.OK())
	assert.Equal(t, "3048.T", r.Value.Symbol)
	assert.Contains(t, f.autoQueries, "Bic Camera Inc.")
}

func TestSearchProfile_UsesFirstHitWhenNoPreference(t *testing.T) {
	f := &searchFixture{autocomplete: map[string]string{
		"apple": `{"ResultSet":{"Result":[{"symbol":"AAPL","name":"Apple Inc.","exch":"NMS"}]}}`,
	}}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	r := c.SearchProfile(context.Background(), "apple", "")
	require.True(t, r.OK())
	assert.Equal(t, "AAPL", r.Value.Symbol)
	// "apple" was the original query and must not be re-queried during refinement.
	count := 0
	for _, q := range f.autoQueries {
		if q == "apple" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSearchProfile_RefineDoesNotLoop(t *testing.T) {
	f := &searchFixture{
		search: map[string]string{
			"acme": `{"quotes":[{"symbol":"ACME","shortname":"Acme","longname":"Acme Corp","exchange":"NYQ"}]}`,
		},
		autocomplete: map[string]string{
			"Acme Corp": `{"ResultSet":{"Result":[{"symbol":"ACME","name":"Acme","exch":"NYQ"}]}}`,
			"Acme":      `{"ResultSet":{"Result":[{"symbol":"ACME","name":"Acme Corp","exch":"NYQ"}]}}`,
		},
	}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	r := c.SearchProfile(context.Background(), "acme", "")
	require.True(t, r.OK())
	assert.Equal(t, "ACME", r.Value.Symbol)
	assert.LessOrEqual(t, len(f.autoQueries), 3)
}

func TestSearchProfile_BlankAndEmpty(t *testing.T) {
	f := &searchFixture{}
	_, cfg := f.server(t)
	c := newTestClient(t, cfg)

	assert.Equal(t, StatusNotFound, c.SearchProfile(context.Background(), "  ", "").Status)
	assert.Equal(t, StatusNotFound, c.SearchProfile(context.Background(), "qwxzv", "").Status)
}

func TestSearchProfile_FailedWhenEndpointsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, config.MarketConfig{AutocompleteURL: srv.URL, SearchURL: srv.URL})
	r := c.SearchProfile(context.Background(), "toyota", "")
	assert.Equal(t, StatusFailed, r.Status)
	assert.Error(t, r.Err)
}

func TestSearchHit_IsTokyo(t *testing.T) {
	assert.True(t, SearchHit{Exchange: "tyo"}.IsTokyo())
	assert.True(t, SearchHit{ExchangeDisplay: "Tokyo Stock Exchange"}.IsTokyo())
	assert.True(t, SearchHit{Symbol: "7203.T"}.IsTokyo())
	assert.False(t, SearchHit{Symbol: "TM", Exchange: "NYQ"}.IsTokyo())
}
