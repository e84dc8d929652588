package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing X-Frame-Options")
	}
	if !strings.Contains(rr.Header().Get("Content-Security-Policy"), "https://unpkg.com") {
		t.Errorf("CSP must allow htmx from unpkg")
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Errorf("HSTS must not be sent over plain HTTP")
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestStaticAssetMiddleware(t *testing.T) {
	h := StaticAssetMiddleware(3600)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rr.Header().Get("Cache-Control") != "public, max-age=3600, immutable" {
		t.Errorf("Cache-Control = %q", rr.Header().Get("Cache-Control"))
	}
}
