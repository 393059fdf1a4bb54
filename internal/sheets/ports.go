package sheets

import (
	"context"

	"apbdes/internal/core"
)

// Ports for outbound adapters.
type (
	// SeedReader loads the document every new session starts from.
	SeedReader interface {
		ReadSeed(ctx context.Context) (core.Document, error)
	}
)
