package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/aide-portal/internal/common"
)

func newTestServer() *Server {
	return &Server{logger: common.NewSilentLogger()}
}

// flushRecorder counts Flush calls reaching the underlying writer.
type flushRecorder struct {
	*httptest.ResponseRecorder
	flushes int
}

func (f *flushRecorder) Flush() {
	f.flushes++
	f.ResponseRecorder.Flush()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q: %v", w.Body.String(), err)
	}
	return body["error"]
}

// --- Correlation ID ---

func TestCorrelationIDMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"request id wins", map[string]string{"X-Request-ID": "req-1", "X-Correlation-ID": "corr-1"}, "req-1"},
		{"correlation id header", map[string]string{"X-Correlation-ID": "corr-1"}, "corr-1"},
		{"generated when absent", nil, ""},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = common.CorrelationID(r.Context())
			}))

			req := httptest.NewRequest("GET", "/api/insights?ticker=7203", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if seen == "" {
				t.Fatal("expected correlation ID in context")
			}
			if tt.want != "" && seen != tt.want {
				t.Errorf("expected %s, got %s", tt.want, seen)
			}
			if got := w.Header().Get("X-Correlation-ID"); got != seen {
				t.Errorf("response header %q does not match context %q", got, seen)
			}
		})
	}
}

// --- CORS ---

func TestCORSMiddleware_AllowsMCPSessionHeader(t *testing.T) {
	s := newTestServer()
	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/api/company-info?ticker=3048", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Mcp-Session-Id") {
		t.Errorf("expected Mcp-Session-Id in allowed headers, got %s", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestCORSMiddleware_PreflightShortCircuits(t *testing.T) {
	s := newTestServer()
	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest("OPTIONS", "/mcp", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for preflight, got %d", w.Code)
	}
}

// --- Recovery ---

func TestRecoveryMiddleware_WritesJSONError(t *testing.T) {
	s := newTestServer()
	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil profile")
	}))

	req := httptest.NewRequest("GET", "/api/insights?ticker=9831", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("expected JSON content type, got %s", w.Header().Get("Content-Type"))
	}
	if msg := decodeError(t, w); msg != "Internal server error" {
		t.Errorf("unexpected error message %q", msg)
	}
}

// --- Logging / responseWriter ---

func TestLoggingMiddleware_PreservesStatusAndBody(t *testing.T) {
	s := newTestServer()
	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"busy"}`))
	}))

	req := httptest.NewRequest("GET", "/api/insights?ticker=7203", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"busy"}` {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestResponseWriter_TracksStatusAndBytes(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	rw.Write([]byte("event: message\n"))
	rw.Write([]byte("data: {}\n\n"))

	if rw.statusCode != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rw.statusCode)
	}
	if rw.bytesWritten != len("event: message\n")+len("data: {}\n\n") {
		t.Errorf("unexpected bytesWritten %d", rw.bytesWritten)
	}
}

func TestResponseWriter_FlushReachesUnderlyingWriter(t *testing.T) {
	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	var w http.ResponseWriter = rw
	flusher, ok := w.(http.Flusher)
	if !ok {
		t.Fatal("wrapped writer must implement http.Flusher for streamed MCP responses")
	}
	flusher.Flush()
	flusher.Flush()

	if rec.flushes != 2 {
		t.Errorf("expected 2 flushes, got %d", rec.flushes)
	}
}

func TestResponseWriter_FlushWithoutFlusherIsNoop(t *testing.T) {
	rw := &responseWriter{ResponseWriter: struct{ http.ResponseWriter }{httptest.NewRecorder()}, statusCode: http.StatusOK}
	rw.Flush()
}

// --- Security headers ---

func TestSecurityHeadersMiddleware_SetsHeaders(t *testing.T) {
	s := newTestServer()
	handler := s.securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("expected %s=%s, got %s", header, value, got)
		}
	}
	if !strings.Contains(w.Header().Get("Content-Security-Policy"), "default-src 'none'") {
		t.Errorf("unexpected CSP %q", w.Header().Get("Content-Security-Policy"))
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through, got %d", w.Code)
	}
}

// --- Body limit ---

func TestMaxBodySizeMiddleware(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"small MCP request", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, false},
		{"oversized request", strings.Repeat("x", 100), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			handler := s.maxBodySizeMiddleware(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
			}))

			req := httptest.NewRequest("POST", "/mcp", strings.NewReader(tt.body))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if (readErr != nil) != tt.wantErr {
				t.Errorf("read error = %v, wantErr %v", readErr, tt.wantErr)
			}
		})
	}
}

// --- Full chain ---

func TestWithMiddleware_PanicInsideChain(t *testing.T) {
	s := newTestServer()
	handler := s.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("upstream client bug")
	}))

	req := httptest.NewRequest("GET", "/api/insights?ticker=3048", nil)
	req.Header.Set("X-Request-ID", "chain-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if w.Header().Get("X-Correlation-ID") != "chain-1" {
		t.Errorf("expected correlation header chain-1, got %s", w.Header().Get("X-Correlation-ID"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on error responses")
	}
	if msg := decodeError(t, w); msg == "" {
		t.Error("expected error message")
	}
}

func TestWithMiddleware_StreamingFlushSurvivesChain(t *testing.T) {
	s := newTestServer()
	handler := s.withMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {}\n\n"))
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("handler did not receive an http.Flusher")
		}
		f.Flush()
	}))

	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(`{}`))
	handler.ServeHTTP(rec, req)

	if rec.flushes != 1 {
		t.Errorf("expected flush to reach the client writer, got %d", rec.flushes)
	}
}
