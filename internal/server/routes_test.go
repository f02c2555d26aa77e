package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/aide-portal/internal/app"
	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Gemini.APIKey = ""
	cfg.Insights.MockDelay = "0"
	cfg.Market.QuoteSummaryHosts = []string{"http://127.0.0.1:1"}
	cfg.Market.QuoteURL = "http://127.0.0.1:1/quote"
	cfg.Market.SearchURL = "http://127.0.0.1:1/search"
	cfg.Market.AutocompleteURL = "http://127.0.0.1:1/autoc"
	cfg.Logo.FMPImageURL = ""
	cfg.Logo.ClearbitURL = ""

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["ai_available"] != false {
		t.Errorf("expected ai_available false without a key, got %v", body["ai_available"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRoutes_InsightsBlankIdentifier(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/insights?ticker=", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRoutes_InsightsDemoRecordWithoutKey(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/insights?ticker=9831", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["ticker"] != "9831.T" {
		t.Errorf("expected ticker 9831.T, got %v", body["ticker"])
	}
}

func TestRoutes_InsightsMissingKey(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/insights?ticker=7203", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestRoutes_CompanyInfoRequiresTicker(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/company-info", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRoutes_NotFound(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/nonexistent", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers from middleware")
	}
}
