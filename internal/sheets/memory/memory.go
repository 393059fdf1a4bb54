package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"apbdes/internal/core"
)

// Store serves a seed document held in memory.
type Store struct {
	mu  sync.Mutex
	doc core.Document
}

// New returns a store serving doc. Rows without an id get a fresh one.
func New(doc core.Document) *Store {
	return &Store{doc: fillIDs(doc, core.UUIDs)}
}

// NewBuiltin serves the built-in sample budget.
func NewBuiltin() *Store {
	return New(core.SeedDocument())
}

// NewFromFile reads a JSON document in the same shape as /api/document
// returns under "document".
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	s := New(doc)
	if err := s.doc.Validate(); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return s, nil
}

// ReadSeed returns the seed. Documents are never mutated in place, so the
// same value is handed to every caller.
func (s *Store) ReadSeed(_ context.Context) (core.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, nil
}

// Replace swaps the served seed, e.g. after a reload.
func (s *Store) Replace(doc core.Document) error {
	doc = fillIDs(doc, core.UUIDs)
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}

func fillIDs(doc core.Document, ids core.IDGenerator) core.Document {
	fill := func(rows []core.LineItem) []core.LineItem {
		out := make([]core.LineItem, len(rows))
		copy(out, rows)
		for i := range out {
			if out[i].ID == "" {
				out[i].ID = ids.NewID()
			}
		}
		return out
	}
	doc.Revenue = fill(doc.Revenue)
	doc.Financing.In = fill(doc.Financing.In)
	doc.Financing.Out = fill(doc.Financing.Out)
	sections := make([]core.Section, len(doc.Expenditure))
	for i, s := range doc.Expenditure {
		if s.ID == "" {
			s.ID = ids.NewID()
		}
		s.Rows = fill(s.Rows)
		sections[i] = s
	}
	doc.Expenditure = sections
	return doc
}
