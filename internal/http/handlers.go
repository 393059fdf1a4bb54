package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	applog "apbdes/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.sessions == nil {
		checks["sessions"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["sessions"] = map[string]interface{}{
			"active": s.sessions.Len(),
			"status": "ok",
		}
	}

	// The journal is optional; only a configured one that cannot be
	// reached marks the service as not ready.
	if p, ok := s.journal.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["journal"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["journal"] = "ok"
		}
	} else {
		checks["journal"] = "not_configured"
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	edits := atomic.LoadInt64(&s.appMetrics.edits)
	exports := atomic.LoadInt64(&s.appMetrics.exports)
	exportFailures := atomic.LoadInt64(&s.appMetrics.exportFailures)
	journalFailures := atomic.LoadInt64(&s.appMetrics.journalFailures)
	uptime := time.Since(s.appMetrics.uptime)

	sessions := 0
	if s.sessions != nil {
		sessions = s.sessions.Len()
	}

	w.WriteHeader(http.StatusOK)

	// Write metrics in Prometheus-like format
	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_response_time_us Running average response time in microseconds\n")
	fmt.Fprintf(w, "# TYPE http_response_time_us gauge\n")
	fmt.Fprintf(w, "http_response_time_us %d\n\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP document_edits_total Total number of applied document edits\n")
	fmt.Fprintf(w, "# TYPE document_edits_total counter\n")
	fmt.Fprintf(w, "document_edits_total %d\n\n", edits)

	fmt.Fprintf(w, "# HELP exports_total Total number of completed downloads\n")
	fmt.Fprintf(w, "# TYPE exports_total counter\n")
	fmt.Fprintf(w, "exports_total %d\n\n", exports)

	fmt.Fprintf(w, "# HELP export_failures_total Total number of failed exports\n")
	fmt.Fprintf(w, "# TYPE export_failures_total counter\n")
	fmt.Fprintf(w, "export_failures_total %d\n\n", exportFailures)

	fmt.Fprintf(w, "# HELP journal_failures_total Total number of exports that could not be journaled\n")
	fmt.Fprintf(w, "# TYPE journal_failures_total counter\n")
	fmt.Fprintf(w, "journal_failures_total %d\n\n", journalFailures)

	fmt.Fprintf(w, "# HELP sessions_active Documents currently held in memory\n")
	fmt.Fprintf(w, "# TYPE sessions_active gauge\n")
	fmt.Fprintf(w, "sessions_active %d\n\n", sessions)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Export rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError("Terlalu banyak permintaan unduhan").
		TriggerErrorNotification("Terlalu banyak unduhan. Coba lagi sebentar lagi.").
		Write(w)
}
