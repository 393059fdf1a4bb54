package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"apbdes/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the export journal stored in SQLite.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RecordExport stores rec. Recording the same id twice keeps the first row.
func (r *SQLiteRepository) RecordExport(ctx context.Context, rec core.ExportRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	n, err := r.queries.CreateExport(ctx, CreateExportParams{
		ID:               rec.ID,
		SessionID:        rec.SessionID,
		Filename:         rec.Filename,
		Format:           rec.Format,
		Village:          rec.Village,
		Year:             int64(rec.Year),
		ByteSize:         rec.ByteSize,
		RevenueFinal:     rec.RevenueFinal.Int64(),
		ExpenditureFinal: rec.ExpenditureFinal.Int64(),
		ResidualFinal:    rec.ResidualFinal.Int64(),
		CreatedAt:        rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}

	if n == 0 {
		slog.DebugContext(ctx, "Export already journaled", "id", rec.ID)
		return nil
	}
	slog.InfoContext(ctx, "Export journaled to SQLite",
		"id", rec.ID,
		"filename", rec.Filename,
		"format", rec.Format,
		"bytes", rec.ByteSize)
	return nil
}

// ListRecentExports returns up to limit entries, newest first.
func (r *SQLiteRepository) ListRecentExports(ctx context.Context, limit int) ([]core.ExportRecord, error) {
	rows, err := r.queries.ListRecentExports(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent exports: %w", err)
	}
	out := make([]core.ExportRecord, len(rows))
	for i, e := range rows {
		out[i] = core.ExportRecord{
			ID:               e.ID,
			SessionID:        e.SessionID,
			Filename:         e.Filename,
			Format:           e.Format,
			Village:          e.Village,
			Year:             int(e.Year),
			ByteSize:         e.ByteSize,
			RevenueFinal:     core.Amount(e.RevenueFinal),
			ExpenditureFinal: core.Amount(e.ExpenditureFinal),
			ResidualFinal:    core.Amount(e.ResidualFinal),
			CreatedAt:        e.CreatedAt,
		}
	}
	return out, nil
}

// CountExports returns the number of journaled exports.
func (r *SQLiteRepository) CountExports(ctx context.Context) (int64, error) {
	n, err := r.queries.CountExports(ctx)
	if err != nil {
		return 0, fmt.Errorf("count exports: %w", err)
	}
	return n, nil
}
