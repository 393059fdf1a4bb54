package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"apbdes/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordAndListExports(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	doc := core.SeedDocument()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"e1", "e2", "e3"} {
		rec := core.NewExportRecord(id, "s", "apbdes-x-2025.png", "png", doc, 100+i, base.Add(time.Duration(i)*time.Minute))
		if err := repo.RecordExport(ctx, rec); err != nil {
			t.Fatalf("RecordExport %s: %v", id, err)
		}
	}
	// Redelivery of the same id is ignored.
	dup := core.NewExportRecord("e1", "s", "other.png", "png", doc, 1, base)
	if err := repo.RecordExport(ctx, dup); err != nil {
		t.Fatalf("RecordExport duplicate: %v", err)
	}

	n, err := repo.CountExports(ctx)
	if err != nil || n != 3 {
		t.Fatalf("CountExports = %d, %v", n, err)
	}

	recent, err := repo.ListRecentExports(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentExports: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "e3" || recent[1].ID != "e2" {
		t.Fatalf("recent = %+v", recent)
	}
	want := core.Aggregate(doc).Residual.Final
	if recent[0].ResidualFinal != want || recent[0].ByteSize != 102 {
		t.Fatalf("row = %+v", recent[0])
	}
}

func TestRecordExportRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.RecordExport(context.Background(), core.ExportRecord{ID: "x"})
	if !errors.Is(err, core.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.db")
	for i := 0; i < 2; i++ {
		if err := RunMigrations(path); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
