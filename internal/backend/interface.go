package backend

import (
	"context"

	"apbdes/internal/core"
	"apbdes/internal/sheets"
)

// Journal records metadata about a finished export.
type Journal interface {
	RecordExport(ctx context.Context, rec core.ExportRecord) error
}

// Pinger is implemented by journals backed by an external service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the seed source, the export journal and an
// optional cleanup function
type BackendResult struct {
	Seeds   sheets.SeedReader
	Journal Journal
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Seed    SeedSource
	Journal JournalType

	// File seed
	SeedFile string

	// Google Sheets seed
	GoogleSpreadsheetID   string
	GoogleSeedSheetName   string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
	GoogleOAuthClientFile string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenFile  string
	GoogleOAuthTokenJSON  string

	// SQLite journal
	SQLiteDBPath string

	// AMQP journal
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// SeedSource selects where fresh session documents come from.
type SeedSource string

const (
	BuiltinSeed SeedSource = "builtin"
	FileSeed    SeedSource = "file"
	SheetsSeed  SeedSource = "sheets"
)

func (s SeedSource) String() string { return string(s) }

// IsValid returns true if the seed source is known
func (s SeedSource) IsValid() bool {
	switch s {
	case BuiltinSeed, FileSeed, SheetsSeed:
		return true
	default:
		return false
	}
}

// JournalType selects where export records go.
type JournalType string

const (
	NoJournal     JournalType = "none"
	SQLiteJournal JournalType = "sqlite"
	AMQPJournal   JournalType = "amqp"
)

func (j JournalType) String() string { return string(j) }

// IsValid returns true if the journal type is known
func (j JournalType) IsValid() bool {
	switch j {
	case NoJournal, SQLiteJournal, AMQPJournal:
		return true
	default:
		return false
	}
}
