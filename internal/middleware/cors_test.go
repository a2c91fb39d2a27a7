package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveCORS(origins []string, method, origin string, preflight bool) *httptest.ResponseRecorder {
	handler := CORS(origins...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/food", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		preflight  bool
		wantStatus int
		wantAllow  string
	}{
		{"no origins configured refuses all", nil, "http://localhost:3000", http.MethodGet, false, http.StatusOK, ""},
		{"allowed origin", []string{"http://localhost:3000"}, "http://localhost:3000", http.MethodGet, false, http.StatusOK, "http://localhost:3000"},
		{"trailing slash in config", []string{"http://localhost:3000/"}, "http://localhost:3000", http.MethodGet, false, http.StatusOK, "http://localhost:3000"},
		{"case insensitive", []string{"HTTPS://APP.EXAMPLE.COM"}, "https://app.example.com", http.MethodGet, false, http.StatusOK, "https://app.example.com"},
		{"subdomain is not the origin", []string{"https://example.com"}, "https://evil.example.com", http.MethodGet, false, http.StatusOK, ""},
		{"disallowed preflight", []string{"https://example.com"}, "https://evil.com", http.MethodOptions, true, http.StatusForbidden, ""},
		{"allowed preflight", []string{"https://example.com"}, "https://example.com", http.MethodOptions, true, http.StatusNoContent, "https://example.com"},
		{"plain options passes through", []string{"https://example.com"}, "https://example.com", http.MethodOptions, false, http.StatusOK, "https://example.com"},
		{"no origin header", []string{"https://example.com"}, "", http.MethodGet, false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCORS(tt.origins, tt.method, tt.origin, tt.preflight)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if tt.origin != "" && rec.Header().Get("Vary") != "Origin" {
				t.Errorf("Vary = %q, want Origin", rec.Header().Get("Vary"))
			}
		})
	}
}

func TestCORSPreflightHeaders(t *testing.T) {
	rec := serveCORS([]string{"https://example.com"}, http.MethodOptions, "https://example.com", true)

	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PUT") || !strings.Contains(got, "DELETE") {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Access-Control-Allow-Headers = %q, want Authorization", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Access-Control-Max-Age = %q, want 86400", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("credentials must stay disabled, got %q", got)
	}
}

func TestCORSExposesRateLimitHeaders(t *testing.T) {
	rec := serveCORS([]string{"https://example.com"}, http.MethodGet, "https://example.com", false)

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	for _, h := range []string{"Retry-After", "X-Request-ID", "X-RateLimit-Remaining"} {
		if !strings.Contains(exposed, h) {
			t.Errorf("expected %s in Access-Control-Expose-Headers %q", h, exposed)
		}
	}
}
