package logo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
)

func newResolver(cfg config.LogoConfig) *Resolver {
	return NewResolver(common.NewSilentLogger(), &cfg)
}

func TestResolve_DirectProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.URL.Path != "/image-stock/9831.T.png" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := newResolver(config.LogoConfig{FMPImageURL: srv.URL + "/image-stock"})
	got := r.Resolve(context.Background(), "9831.t", "")
	if got != srv.URL+"/image-stock/9831.T.png" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolve_FMPVariants(t *testing.T) {
	var tried []string
	mux := http.NewServeMux()
	mux.HandleFunc("/image-stock/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/profile/", func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/profile/")
		tried = append(tried, symbol)
		if r.URL.Query().Get("apikey") != "k" {
			t.Errorf("missing apikey")
		}
		if symbol == "T:7419" {
			w.Write([]byte(`[{"symbol":"7419.T","image":"https://img.example/7419.png","ceo":"Hiroshi Nojima"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := newResolver(config.LogoConfig{
		FMPAPIKey:     "k",
		FMPImageURL:   srv.URL + "/image-stock",
		FMPProfileURL: srv.URL + "/profile",
	})
	got := r.Resolve(context.Background(), "7419.T", "")
	if got != "https://img.example/7419.png" {
		t.Errorf("Resolve = %q", got)
	}
	want := []string{"7419.T", "7419", "T:7419"}
	if strings.Join(tried, ",") != strings.Join(want, ",") {
		t.Errorf("tried = %v, want %v", tried, want)
	}
}

func TestResolve_FallsBackToWebsite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newResolver(config.LogoConfig{
		FMPAPIKey:     "k",
		FMPImageURL:   srv.URL,
		FMPProfileURL: srv.URL,
		ClearbitURL:   "https://logo.example",
	})
	got := r.Resolve(context.Background(), "3048.T", "www.biccamera.co.jp/corporate")
	if got != "https://logo.example/www.biccamera.co.jp" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolve_NothingFound(t *testing.T) {
	r := newResolver(config.LogoConfig{ClearbitURL: "https://logo.example"})
	if got := r.Resolve(context.Background(), "", ""); got != "" {
		t.Errorf("Resolve = %q, want empty", got)
	}
}

func TestProfile_NoKey(t *testing.T) {
	r := newResolver(config.LogoConfig{FMPProfileURL: "http://unused"})
	p, err := r.Profile(context.Background(), "AAPL")
	if p != nil || err != nil {
		t.Errorf("Profile = (%v, %v), want (nil, nil)", p, err)
	}
}

func TestSymbolVariants(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7419.T", "7419.T,7419,T:7419,t:7419"},
		{"aapl", "AAPL"},
		{"", ""},
	}
	for _, tt := range tests {
		got := strings.Join(SymbolVariants(tt.in), ",")
		if got != tt.want {
			t.Errorf("SymbolVariants(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChiefExecutive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/7419") {
			w.Write([]byte(`[{"symbol":"7419","ceo":" Hiroshi Nojima "}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	r := newResolver(config.LogoConfig{FMPAPIKey: "k", FMPProfileURL: srv.URL + "/profile"})
	if got := r.ChiefExecutive(context.Background(), "7419.T"); got != "Hiroshi Nojima" {
		t.Errorf("ChiefExecutive = %q", got)
	}

	noKey := newResolver(config.LogoConfig{FMPProfileURL: srv.URL + "/profile"})
	if got := noKey.ChiefExecutive(context.Background(), "7419.T"); got != "" {
		t.Errorf("ChiefExecutive without key = %q, want empty", got)
	}
}
