package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewExportRecord(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	doc := SeedDocument()
	r := NewExportRecord("id-1", "sess", "apbdes-x-2025.png", "png", doc, 1234, at)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	tot := Aggregate(doc)
	if r.RevenueFinal != tot.Revenue.Final || r.ResidualFinal != tot.Residual.Final {
		t.Fatalf("record totals = %+v", r)
	}
	if r.CreatedAt.Location() != time.UTC || r.ByteSize != 1234 || r.Year != 2025 {
		t.Fatalf("record = %+v", r)
	}
}

func TestExportRecordValidate(t *testing.T) {
	cases := []ExportRecord{
		{Filename: "a.png", Format: "png"},
		{ID: "x", Format: "png"},
		{ID: "x", Filename: "a.png"},
		{ID: "x", Filename: "a.png", Format: "png", ByteSize: -1},
	}
	for i, r := range cases {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("case %d: expected ErrInvalidRecord, got %v", i, err)
		}
	}
}
