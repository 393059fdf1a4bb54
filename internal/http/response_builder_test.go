package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeTriggers(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := w.Header().Get("HX-Trigger")
	if raw == "" {
		t.Fatal("HX-Trigger header not set")
	}
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v (%s)", err, raw)
	}
	return events
}

func TestHTMXResponseBuilder_Fragment(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().BodyHTML(`<section id="banner"></section>`).Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("unexpected HX-Trigger %q", w.Header().Get("HX-Trigger"))
	}
	if w.Body.String() != `<section id="banner"></section>` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestHTMXResponseBuilder_Events(t *testing.T) {
	tests := []struct {
		name    string
		build   func(*HTMXResponseBuilder) *HTMXResponseBuilder
		event   string
		payload string
	}{
		{
			name:    "document changed",
			build:   func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerDocumentChanged(viewBanner) },
			event:   eventDocumentChanged,
			payload: `{"view":"banner"}`,
		},
		{
			name:    "document reset",
			build:   func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerDocumentReset() },
			event:   eventDocumentReset,
			payload: `{}`,
		},
		{
			name:    "success toast",
			build:   func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerSuccessNotification("Baris ditambahkan") },
			event:   eventNotification,
			payload: `{"type":"success","message":"Baris ditambahkan","duration":3000}`,
		},
		{
			name:    "error toast",
			build:   func(b *HTMXResponseBuilder) *HTMXResponseBuilder { return b.TriggerErrorNotification("gagal") },
			event:   eventNotification,
			payload: `{"type":"error","message":"gagal","duration":5000}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.build(NewHTMXResponse()).Write(w)
			events := decodeTriggers(t, w)
			if got := string(events[tt.event]); got != tt.payload {
				t.Errorf("%s payload = %s, want %s", tt.event, got, tt.payload)
			}
		})
	}
}

func TestHTMXResponseBuilder_CombinesEvents(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerDocumentReset().
		TriggerSuccessNotification("Dokumen dikembalikan").
		Write(w)

	events := decodeTriggers(t, w)
	if len(events) != 2 {
		t.Errorf("events = %v, want reset and notification", events)
	}
}

func TestHTMXResponseBuilder_KeepsExistingHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Retry-After", "30")
	TooManyRequestsError("Slow down").Write(w)

	if w.Header().Get("Retry-After") != "30" {
		t.Errorf("Retry-After dropped")
	}
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bad request",
			builder:    BadRequestError("Baris tidak ditemukan"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `<div class="error" role="alert">Baris tidak ditemukan</div>`,
		},
		{
			name:       "unprocessable",
			builder:    ErrorResponse(http.StatusUnprocessableEntity, "Nominal tidak valid"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `<div class="error" role="alert">Nominal tidak valid</div>`,
		},
		{
			name:       "too many requests",
			builder:    TooManyRequestsError("Slow down"),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   `<div class="error" role="alert">Slow down</div>`,
		},
		{
			name:       "escapes markup",
			builder:    BadRequestError("<script>alert('xss')</script>"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `<div class="error" role="alert">&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
			if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
				t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
			}
		})
	}
}
