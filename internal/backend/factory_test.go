package backend

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"apbdes/internal/config"
	"apbdes/internal/core"
	"apbdes/internal/storage"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"builtin without journal", Config{Seed: BuiltinSeed, Journal: NoJournal}, false},
		{"unknown seed", Config{Seed: "ftp", Journal: NoJournal}, true},
		{"unknown journal", Config{Seed: BuiltinSeed, Journal: "kafka"}, true},
		{"file seed without path", Config{Seed: FileSeed, Journal: NoJournal}, true},
		{"sheets without spreadsheet", Config{Seed: SheetsSeed, Journal: NoJournal}, true},
		{"sqlite without path", Config{Seed: BuiltinSeed, Journal: SQLiteJournal}, true},
		{"amqp without queue", Config{Seed: BuiltinSeed, Journal: AMQPJournal, AMQPURL: "amqp://x", AMQPExchange: "e"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg, err := FromAppConfig(&config.Config{SeedSource: "builtin", ExportJournal: "sqlite", SQLiteDBPath: "x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Seed != BuiltinSeed || cfg.Journal != SQLiteJournal || cfg.SQLiteDBPath != "x.db" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestCreateBackendBuiltin(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Seed: BuiltinSeed, Journal: NoJournal})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Cleanup != nil {
		t.Fatal("builtin backend should not need cleanup")
	}
	doc, err := res.Seeds.ReadSeed(context.Background())
	if err != nil {
		t.Fatalf("ReadSeed: %v", err)
	}
	if len(doc.Expenditure) != 5 {
		t.Fatalf("sections = %d, want 5", len(doc.Expenditure))
	}
	if err := res.Journal.RecordExport(context.Background(), core.ExportRecord{}); err != nil {
		t.Fatalf("nop journal returned %v", err)
	}
}

func TestCreateBackendFileAndSQLite(t *testing.T) {
	dir := t.TempDir()
	seed := core.SeedDocument()
	seed.Header.VillageName = "Sukamaju"
	data, err := json.Marshal(seed)
	if err != nil {
		t.Fatal(err)
	}
	seedPath := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(seedPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Seed:         FileSeed,
		SeedFile:     seedPath,
		Journal:      SQLiteJournal,
		SQLiteDBPath: filepath.Join(dir, "journal.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()

	doc, err := res.Seeds.ReadSeed(context.Background())
	if err != nil {
		t.Fatalf("ReadSeed: %v", err)
	}
	if doc.Header.VillageName != "Sukamaju" {
		t.Fatalf("village = %q", doc.Header.VillageName)
	}
	if _, ok := res.Journal.(*storage.SQLiteRepository); !ok {
		t.Fatalf("journal = %T, want *storage.SQLiteRepository", res.Journal)
	}
}

func TestCreateBackendMissingSeedFile(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Seed:     FileSeed,
		SeedFile: filepath.Join(t.TempDir(), "missing.json"),
		Journal:  NoJournal,
	})
	if err == nil {
		t.Fatal("expected error for missing seed file")
	}
}
