package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"apbdes/internal/amqp"
	"apbdes/internal/core"
)

// Journal stores export records.
type Journal interface {
	RecordExport(ctx context.Context, rec core.ExportRecord) error
	CountExports(ctx context.Context) (int64, error)
}

// JournalWorker drains export events from the broker into the journal.
type JournalWorker struct {
	journal Journal
	handled atomic.Int64
}

func NewJournalWorker(journal Journal) *JournalWorker {
	return &JournalWorker{journal: journal}
}

// HandleExportEvent journals a single export event from AMQP. Returning an
// error requeues the message.
func (w *JournalWorker) HandleExportEvent(ctx context.Context, msg *amqp.ExportEvent) error {
	rec := msg.Record
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = msg.Timestamp.UTC()
	}
	if err := w.journal.RecordExport(ctx, rec); err != nil {
		return fmt.Errorf("record export %s: %w", rec.ID, err)
	}
	w.handled.Add(1)

	slog.InfoContext(ctx, "Export event journaled",
		"id", rec.ID,
		"filename", rec.Filename,
		"village", rec.Village,
		"year", rec.Year,
		"queued_for", time.Since(msg.Timestamp).Round(time.Millisecond))
	return nil
}

// Handled returns how many events this worker journaled.
func (w *JournalWorker) Handled() int64 { return w.handled.Load() }

// LogSummary writes the journal size; the worker binary calls it on a ticker.
func (w *JournalWorker) LogSummary(ctx context.Context) error {
	n, err := w.journal.CountExports(ctx)
	if err != nil {
		return fmt.Errorf("count exports: %w", err)
	}
	slog.InfoContext(ctx, "Export journal summary", "total_exports", n, "handled_by_worker", w.handled.Load())
	return nil
}
