package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: ComponentApp, Output: buf})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).WithComponent(ComponentExport)
	logger.Info("rendered", FieldFormat, "png")

	out := buf.String()
	if !strings.Contains(out, "component=export") || !strings.Contains(out, "format=png") {
		t.Fatalf("output = %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component logged more than once: %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()).Component(); got != "unknown" {
		t.Fatalf("default component = %q", got)
	}

	var buf bytes.Buffer
	logger := newTestLogger(&buf)
	if got := FromContext(WithLogger(context.Background(), logger)); got != logger {
		t.Fatal("WithLogger did not attach logger")
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newTestLogger(&buf))
	ctx := context.Background()

	sl.LogExport(ctx, "s1", "png", "apbdes-x-2025.png", 1024)
	sl.LogEdit(ctx, "s1", OpAddRow, NewFields().WithRow("revenue", 0, 3))
	sl.LogError(ctx, "export failed", errors.New("boom"), ComponentExport, OpExport, nil)

	r := httptest.NewRequest(http.MethodGet, "/export.png", nil)
	sl.LogHTTPEnd(ctx, r, "req_1", http.StatusTooManyRequests, 3, "10.0.0.1")

	out := buf.String()
	for _, want := range []string{
		"byte_size=1024",
		"operation=add_row",
		"row_index=3",
		"error=boom",
		"level=WARN",
		"status_code=429",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusLevel(t *testing.T) {
	tests := []struct {
		code int
		want slog.Level
	}{
		{200, slog.LevelInfo},
		{304, slog.LevelInfo},
		{422, slog.LevelWarn},
		{429, slog.LevelWarn},
		{500, slog.LevelError},
		{504, slog.LevelError},
	}
	for _, tt := range tests {
		if got := statusLevel(tt.code); got != tt.want {
			t.Errorf("statusLevel(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
