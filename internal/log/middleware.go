package log

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the default logger tagged
// "unknown" outside a traced request.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: "unknown"}
}

// StructuredLogger writes the request, edit and export events with a fixed
// field layout.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPStart is debug level; the completion line carries everything an
// operator needs.
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, requestID, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithRequestID(requestID).
		WithClientIP(clientIP)
	sl.logger.WithComponent(ComponentHTTP).DebugContext(ctx, "HTTP request started", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, requestID string, statusCode int, durationMs int64, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithRequestID(requestID).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)
	sl.logger.Logger.Log(ctx, statusLevel(statusCode), "HTTP request completed", fields.ToSlice()...)
}

func statusLevel(code int) slog.Level {
	switch {
	case code >= 500:
		return slog.LevelError
	case code >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LogEdit records an applied document edit.
func (sl *StructuredLogger) LogEdit(ctx context.Context, sessionID, operation string, fields LogFields) {
	fields = fields.WithSession(sessionID).WithOperation(operation)
	sl.logger.WithComponent(ComponentEditor).InfoContext(ctx, "Document edited", fields.ToSlice()...)
}

// LogExport records a download that reached the client.
func (sl *StructuredLogger) LogExport(ctx context.Context, sessionID, format, filename string, size int) {
	fields := NewFields().
		WithSession(sessionID).
		WithExport(format, filename, size).
		WithOperation(OpExport)
	sl.logger.WithComponent(ComponentExport).InfoContext(ctx, "Export completed", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields = fields.WithError(err).WithOperation(operation)
	sl.logger.WithComponent(component).ErrorContext(ctx, msg, fields.ToSlice()...)
}
