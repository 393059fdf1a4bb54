package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"apbdes/internal/cache"
	"apbdes/internal/core"
	"apbdes/internal/sheets/memory"
)

type failingSeed struct{}

func (failingSeed) ReadSeed(context.Context) (core.Document, error) {
	return core.Document{}, errors.New("sheet unavailable")
}

func newStore() *Store {
	return NewStore(cache.NewSlidingCache[core.Document](16, time.Hour), memory.NewBuiltin())
}

func TestGetSeedsNewSession(t *testing.T) {
	s := newStore()
	id := NewID()
	doc, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Header.HeadOfVillageName != "ISMAIL" {
		t.Fatalf("session not seeded: %+v", doc.Header)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestUpdateIsolatesSessions(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	a, b := NewID(), NewID()
	if _, err := s.Update(ctx, a, func(d core.Document) (core.Document, error) {
		return core.UpdateHeader(d, core.HeaderVillage, "Sukamaju")
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	da, _ := s.Get(ctx, a)
	db, _ := s.Get(ctx, b)
	if da.Header.VillageName != "Sukamaju" {
		t.Fatalf("update lost")
	}
	if db.Header.VillageName == "Sukamaju" {
		t.Fatalf("update leaked into another session")
	}
}

func TestUpdateErrorKeepsDocument(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := NewID()
	before, _ := s.Get(ctx, id)
	_, err := s.Update(ctx, id, func(d core.Document) (core.Document, error) {
		return core.RemoveRow(d, core.Revenue(), 99)
	})
	if !errors.Is(err, core.ErrRowOutOfRange) {
		t.Fatalf("expected ErrRowOutOfRange, got %v", err)
	}
	after, _ := s.Get(ctx, id)
	if len(after.Revenue) != len(before.Revenue) {
		t.Fatalf("failed update changed the document")
	}
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := NewID()
	before, _ := s.Get(ctx, id)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, id, func(d core.Document) (core.Document, error) {
				return core.AddRow(d, core.FinancingIn(), core.UUIDs)
			})
		}()
	}
	wg.Wait()

	after, _ := s.Get(ctx, id)
	if got := len(after.Financing.In) - len(before.Financing.In); got != 20 {
		t.Fatalf("added %d rows, want 20", got)
	}
}

func TestReset(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	id := NewID()
	if _, err := s.Update(ctx, id, func(d core.Document) (core.Document, error) {
		return core.AddRow(d, core.Revenue(), core.UUIDs)
	}); err != nil {
		t.Fatal(err)
	}
	doc, err := s.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(doc.Revenue) != len(core.SeedDocument().Revenue) {
		t.Fatalf("reset did not restore the seed")
	}
}

func TestInvalidIDAndSeedFailure(t *testing.T) {
	s := newStore()
	if _, err := s.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	broken := NewStore(cache.NewLRUCache[core.Document](4, time.Hour), failingSeed{})
	if _, err := broken.Get(context.Background(), NewID()); err == nil {
		t.Fatalf("expected seed error")
	}
	if broken.Len() != 0 {
		t.Fatalf("failed seed must not create a session")
	}
}
