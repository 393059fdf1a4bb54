package http

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"apbdes/internal/core"
	"apbdes/internal/export"
	applog "apbdes/internal/log"
	"apbdes/internal/render"
)

const journalTimeout = 5 * time.Second

// handleExport serves the session banner in format f as an attachment.
// A failed export answers with an error notification and leaves the
// document untouched.
func (s *Server) handleExport(f export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := s.sessionID(w, r)
		doc, err := s.sessions.Get(r.Context(), sid)
		if err != nil {
			s.editFailed(w, r, sid, applog.OpExport, nil, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.exportTimeout)
		defer cancel()

		started := time.Now()
		data, err := f.Exporter.Export(ctx, render.Build(doc), ParseExportConfig(r.URL.Query()))
		if err != nil {
			atomic.AddInt64(&s.appMetrics.exportFailures, 1)
			fields := applog.NewFields().WithSession(sid).WithExport(f.Name, "", 0)
			s.structured.LogError(r.Context(), "Export failed", err, applog.ComponentExport, applog.OpExport, fields)

			status := http.StatusInternalServerError
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			ErrorResponse(status, "Gagal mengunduh banner").
				TriggerErrorNotification("Gagal mengunduh banner. Silakan coba lagi.").
				Write(w)
			return
		}

		filename := core.ExportFilename(s.prefix, doc.Header, f.Extension)
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
		if disposition == "" {
			disposition = "attachment"
		}
		w.Header().Set("Content-Type", f.ContentType)
		w.Header().Set("Content-Disposition", disposition)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)

		atomic.AddInt64(&s.appMetrics.exports, 1)
		s.structured.LogExport(r.Context(), sid, f.Name, filename, len(data))
		s.logger.DebugContext(r.Context(), "Export timing", applog.FieldFormat, f.Name, applog.FieldDuration, time.Since(started).Milliseconds())

		s.recordExport(r.Context(), core.NewExportRecord(s.ids.NewID(), sid, filename, f.Name, doc, len(data), time.Now().UTC()))
	}
}

// recordExport journals a finished download. The file has already been
// sent, so failures are only logged.
func (s *Server) recordExport(ctx context.Context, rec core.ExportRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := s.journal.RecordExport(ctx, rec); err != nil {
		atomic.AddInt64(&s.appMetrics.journalFailures, 1)
		fields := applog.NewFields().WithSession(rec.SessionID).WithExport(rec.Format, rec.Filename, int(rec.ByteSize))
		s.structured.LogError(ctx, "Export journal failed", err, applog.ComponentExport, applog.OpJournal, fields)
	}
}
