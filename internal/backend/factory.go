package backend

import (
	"context"
	"fmt"
	"log/slog"

	"apbdes/internal/amqp"
	"apbdes/internal/core"
	"apbdes/internal/sheets"
	gsheet "apbdes/internal/sheets/google"
	"apbdes/internal/sheets/memory"
	"apbdes/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seeds, err := f.createSeeds(ctx, config)
	if err != nil {
		return nil, err
	}

	journal, cleanup, err := f.createJournal(config)
	if err != nil {
		return nil, err
	}

	return &BackendResult{
		Seeds:   seeds,
		Journal: journal,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createSeeds(ctx context.Context, config Config) (sheets.SeedReader, error) {
	switch config.Seed {
	case FileSeed:
		store, err := memory.NewFromFile(config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		f.logger.Info("Initialized file seed source", "path", config.SeedFile)
		return store, nil

	case SheetsSeed:
		cli, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			SheetName:       config.GoogleSeedSheetName,
			CredentialsJSON: config.GoogleCredentialsJSON,
			CredentialsFile: config.GoogleCredentialsFile,
			OAuthClientJSON: config.GoogleOAuthClientJSON,
			OAuthClientFile: config.GoogleOAuthClientFile,
			OAuthTokenJSON:  config.GoogleOAuthTokenJSON,
			OAuthTokenFile:  config.GoogleOAuthTokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets seed source", "sheet", config.GoogleSeedSheetName)
		return cli, nil

	default:
		f.logger.Info("Initialized builtin seed source")
		return memory.NewBuiltin(), nil
	}
}

func (f *DefaultFactory) createJournal(config Config) (Journal, CleanupFunc, error) {
	switch config.Journal {
	case SQLiteJournal:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite export journal", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil

	case AMQPJournal:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			// Exports must keep working while the broker is down.
			f.logger.Warn("Failed to initialize AMQP client, export journal disabled", "error", err)
			return NopJournal{}, nil, nil
		}
		f.logger.Info("Initialized AMQP export journal",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return client, client.Close, nil

	default:
		return NopJournal{}, nil, nil
	}
}

// NopJournal drops every record.
type NopJournal struct{}

func (NopJournal) RecordExport(context.Context, core.ExportRecord) error { return nil }
