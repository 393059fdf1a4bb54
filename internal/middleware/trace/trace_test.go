package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "apbdes/internal/log"
)

func TestMiddlewareTagsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Component: applog.ComponentApp, Output: &buf})
	m := NewMiddleware(logger, func(*http.Request) string { return "10.1.2.3" })

	var seenID string
	var seenLogger *applog.Logger
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenLogger = applog.FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if !strings.HasPrefix(seenID, "req_") {
		t.Fatalf("request id = %q", seenID)
	}
	if rec.Header().Get(HeaderRequestID) != seenID {
		t.Fatalf("header %q != context %q", rec.Header().Get(HeaderRequestID), seenID)
	}
	if seenLogger == nil || seenLogger.Component() != applog.ComponentApp {
		t.Fatalf("logger not attached")
	}
	out := buf.String()
	if !strings.Contains(out, "status_code=404") || !strings.Contains(out, "client_ip=10.1.2.3") {
		t.Fatalf("log output = %q", out)
	}
	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Fatalf("TotalRequests = %d", got)
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestMiddlewareRequestIDFromProxy(t *testing.T) {
	m := NewMiddleware(applog.New(applog.Config{Output: &bytes.Buffer{}}), nil)

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "proxy id kept", header: "edge-7f3a_01", keep: true},
		{name: "missing", header: ""},
		{name: "log injection", header: "abc\nlevel=ERROR"},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if tt.keep && seen != tt.header {
				t.Fatalf("request id = %q, want %q", seen, tt.header)
			}
			if !tt.keep && !strings.HasPrefix(seen, "req_") {
				t.Fatalf("request id = %q, want generated", seen)
			}
		})
	}
}
