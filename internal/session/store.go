// Package session keeps the single active document of every browser
// session in memory. Nothing is persisted: an expired or evicted session
// starts again from the seed.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"apbdes/internal/cache"
	"apbdes/internal/core"
	"apbdes/internal/sheets"
)

// ErrInvalidID is returned for session ids that are not UUIDs.
var ErrInvalidID = errors.New("invalid session id")

// Store maps session ids to documents.
type Store struct {
	docs  *cache.LRUCache[core.Document]
	seeds sheets.SeedReader
}

// NewStore returns a store backed by docs. New sessions start from the
// document seeds returns.
func NewStore(docs *cache.LRUCache[core.Document], seeds sheets.SeedReader) *Store {
	return &Store{docs: docs, seeds: seeds}
}

// NewID returns a fresh session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the document of session id, seeding it on first use.
func (s *Store) Get(ctx context.Context, id string) (core.Document, error) {
	return s.Update(ctx, id, func(d core.Document) (core.Document, error) { return d, nil })
}

// Update applies fn to the document of session id and stores the result.
// Updates are serialized; when fn fails the stored document is unchanged.
func (s *Store) Update(ctx context.Context, id string, fn func(core.Document) (core.Document, error)) (core.Document, error) {
	if !ValidID(id) {
		return core.Document{}, ErrInvalidID
	}
	if _, ok := s.docs.Get(id); !ok {
		seed, err := s.seeds.ReadSeed(ctx)
		if err != nil {
			return core.Document{}, fmt.Errorf("seed session: %w", err)
		}
		// Another request may have seeded the session meanwhile; keep its
		// document in that case.
		if _, err := s.docs.Update(id, func(cur core.Document, found bool) (core.Document, error) {
			if found {
				return cur, nil
			}
			return seed, nil
		}); err != nil {
			return core.Document{}, err
		}
	}
	return s.docs.Update(id, func(cur core.Document, found bool) (core.Document, error) {
		if !found {
			return core.Document{}, fmt.Errorf("session %s expired", id)
		}
		return fn(cur)
	})
}

// Reset replaces the document of session id with a fresh seed.
func (s *Store) Reset(ctx context.Context, id string) (core.Document, error) {
	if !ValidID(id) {
		return core.Document{}, ErrInvalidID
	}
	seed, err := s.seeds.ReadSeed(ctx)
	if err != nil {
		return core.Document{}, fmt.Errorf("reseed session: %w", err)
	}
	s.docs.Set(id, seed)
	return seed, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.docs.Size() }
