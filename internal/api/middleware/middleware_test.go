package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bigkaa/goartstore/admin-console/internal/identity"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health/live", "/health/live"},
		{"/metrics", "/metrics"},
		{"/admin/", "/admin/"},
		{"/admin/api/me", "/admin/api/me"},
		{"/admin/menu/ws", "/admin/menu/ws"},
		{"/admin/api/apps/42/route-link", "/admin/api/apps/{appID}/route-link"},
		{"/admin/api/apps/a1b2/route-link", "/admin/api/apps/{appID}/route-link"},
		{"/admin/static/htmx.min.js", "/admin/static/*"},
		{"/wp-login.php", "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, ожидается %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddleware_PassesStatus(t *testing.T) {
	handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/me", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("статус = %d, ожидается %d", rec.Code, http.StatusTeapot)
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusBadGateway, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte("body"))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/", nil))

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("статус %d: лог %q не содержит %s", tt.status, out, tt.level)
		}
		if !strings.Contains(out, "bytes=4") {
			t.Errorf("статус %d: лог %q не содержит bytes=4", tt.status, out)
		}
	}
}

func TestSessionCookie(t *testing.T) {
	var got string
	handler := SessionCookie()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = identity.SessionCookie(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Cookie", "sid=abc; lang=ru")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "sid=abc; lang=ru" {
		t.Errorf("cookie в контексте = %q, ожидается sid=abc; lang=ru", got)
	}
}

func TestSessionCookie_Absent(t *testing.T) {
	got := "unset"
	handler := SessionCookie()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = identity.SessionCookie(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/", nil))

	if got != "" {
		t.Errorf("cookie в контексте = %q, ожидается пустая строка", got)
	}
}
