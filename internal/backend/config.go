package backend

import (
	"errors"
	"fmt"

	"apbdes/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	cfg := Config{
		Seed:    SeedSource(appConfig.SeedSource),
		Journal: JournalType(appConfig.ExportJournal),

		SeedFile: appConfig.SeedFile,

		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleSeedSheetName:   appConfig.GoogleSeedSheetName,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,
		GoogleCredentialsJSON: appConfig.GoogleCredentialsJSON,
		GoogleOAuthClientFile: appConfig.GoogleOAuthClientFile,
		GoogleOAuthClientJSON: appConfig.GoogleOAuthClientJSON,
		GoogleOAuthTokenFile:  appConfig.GoogleOAuthTokenFile,
		GoogleOAuthTokenJSON:  appConfig.GoogleOAuthTokenJSON,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Seed.IsValid() {
		return fmt.Errorf("invalid seed source: %s", c.Seed)
	}
	if !c.Journal.IsValid() {
		return fmt.Errorf("invalid export journal: %s", c.Journal)
	}

	switch c.Seed {
	case FileSeed:
		if c.SeedFile == "" {
			return errors.New("seed file path is required for file seed source")
		}
	case SheetsSeed:
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets seed source")
		}
	}

	switch c.Journal {
	case SQLiteJournal:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite journal")
		}
	case AMQPJournal:
		if c.AMQPURL == "" || c.AMQPExchange == "" || c.AMQPQueue == "" {
			return errors.New("AMQP URL, exchange and queue are required for amqp journal")
		}
	}

	return nil
}
