// Package http serves the banner editor: full pages, htmx fragments for
// every edit, downloads and probes.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"
)

// htmx events read by web/static/app.js.
const (
	eventDocumentChanged = "document:changed"
	eventDocumentReset   = "document:reset"
	eventNotification    = "show-notification"
)

const (
	successNotificationTTL = 3 * time.Second
	errorNotificationTTL   = 5 * time.Second
)

// NotificationType selects the toast style.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

type notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int64            `json:"duration"`
}

// HTMXResponseBuilder collects the status, events and HTML body of a reply.
// All events travel in a single HX-Trigger JSON object.
type HTMXResponseBuilder struct {
	status int
	events map[string]any
	body   []byte
	html   bool
}

// NewHTMXResponse starts a 200 reply without events.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{status: http.StatusOK, events: map[string]any{}}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.status = code
	return b
}

// Trigger registers event name with payload data, replacing any earlier
// payload for the same name.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.events[name] = data
	return b
}

// TriggerDocumentChanged tells listeners which view was re-rendered.
func (b *HTMXResponseBuilder) TriggerDocumentChanged(view string) *HTMXResponseBuilder {
	return b.Trigger(eventDocumentChanged, map[string]string{"view": view})
}

func (b *HTMXResponseBuilder) TriggerDocumentReset() *HTMXResponseBuilder {
	return b.Trigger(eventDocumentReset, struct{}{})
}

// TriggerNotification shows a toast for ttl.
func (b *HTMXResponseBuilder) TriggerNotification(kind NotificationType, message string, ttl time.Duration) *HTMXResponseBuilder {
	return b.Trigger(eventNotification, notification{Type: kind, Message: message, Duration: ttl.Milliseconds()})
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, successNotificationTTL)
}

func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationError, message, errorNotificationTTL)
}

// BodyHTML sets an HTML fragment as the body.
func (b *HTMXResponseBuilder) BodyHTML(fragment string) *HTMXResponseBuilder {
	b.body = []byte(fragment)
	b.html = true
	return b
}

// Write sends the reply. Headers already present on w, such as Retry-After
// from the rate limiter, are kept.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	h := w.Header()
	if b.html {
		h.Set("Content-Type", "text/html; charset=utf-8")
	}
	if len(b.events) > 0 {
		if raw, err := json.Marshal(b.events); err == nil {
			h.Set("HX-Trigger", string(raw))
		}
	}
	w.WriteHeader(b.status)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message as an escaped error fragment.
func ErrorResponse(status int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(status).
		BodyHTML(`<div class="error" role="alert">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func TooManyRequestsError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
