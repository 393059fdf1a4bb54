package core

import (
	"errors"
	"testing"
)

func TestAddRowAppendsPlaceholder(t *testing.T) {
	doc := SeedDocument()
	next, err := AddRow(doc, FinancingOut(), IDFunc(func() string { return "new-1" }))
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if len(next.Financing.Out) != len(doc.Financing.Out)+1 {
		t.Fatalf("rows = %d, want %d", len(next.Financing.Out), len(doc.Financing.Out)+1)
	}
	last := next.Financing.Out[len(next.Financing.Out)-1]
	if last != (LineItem{ID: "new-1", Description: NewRowDescription}) {
		t.Fatalf("added row = %+v", last)
	}
	if len(doc.Financing.Out) != 3 {
		t.Fatalf("original document modified")
	}
}

func TestRemoveRowKeepsOrder(t *testing.T) {
	doc := SeedDocument()
	next, err := RemoveRow(doc, Expenditure(1), 2)
	if err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	var ids []string
	for _, r := range next.Expenditure[1].Rows {
		ids = append(ids, r.ID)
	}
	want := []string{"b2r1", "b2r2", "b2r4", "b2r5", "b2r6"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if len(doc.Expenditure[1].Rows) != 6 || doc.Expenditure[1].Rows[2].ID != "b2r3" {
		t.Fatalf("original document modified")
	}
}

func TestRemoveRowOutOfRange(t *testing.T) {
	doc := SeedDocument()
	for _, idx := range []int{-1, len(doc.Revenue)} {
		if _, err := RemoveRow(doc, Revenue(), idx); !errors.Is(err, ErrRowOutOfRange) {
			t.Fatalf("index %d: expected ErrRowOutOfRange, got %v", idx, err)
		}
	}
	if _, err := RemoveRow(doc, Expenditure(99), 0); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if _, err := RemoveRow(doc, RowTarget{Group: Group(42)}, 0); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestUpdateRowDoesNotShareState(t *testing.T) {
	doc := SeedDocument()
	next, err := UpdateRowAmount(doc, Expenditure(0), 3, FieldFinal, 1)
	if err != nil {
		t.Fatalf("UpdateRowAmount: %v", err)
	}
	if next.Expenditure[0].Rows[3].Final != 1 {
		t.Fatalf("final not updated")
	}
	if doc.Expenditure[0].Rows[3].Final != 29161000 {
		t.Fatalf("original row modified: %+v", doc.Expenditure[0].Rows[3])
	}
	// Untouched lists may be shared, touched ones must not be.
	if &next.Expenditure[0] == &doc.Expenditure[0] {
		t.Fatalf("section slice shared with previous version")
	}

	next, err = UpdateRowDescription(next, Revenue(), 0, "PAD")
	if err != nil {
		t.Fatalf("UpdateRowDescription: %v", err)
	}
	if next.Revenue[0].Description != "PAD" || doc.Revenue[0].Description != "Pendapatan Asli Desa" {
		t.Fatalf("description update leaked")
	}

	if _, err := UpdateRowAmount(doc, Revenue(), 0, FieldDescription, 5); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestUpdateHeader(t *testing.T) {
	doc := SeedDocument()
	next, err := UpdateHeader(doc, HeaderVillage, "Sukamaju")
	if err != nil {
		t.Fatalf("UpdateHeader: %v", err)
	}
	next, err = UpdateHeader(next, HeaderYear, " 2026 ")
	if err != nil {
		t.Fatalf("UpdateHeader year: %v", err)
	}
	if next.Header.VillageName != "Sukamaju" || next.Header.Year != 2026 {
		t.Fatalf("header = %+v", next.Header)
	}
	if doc.Header.VillageName == "Sukamaju" {
		t.Fatalf("original header modified")
	}
	if _, err := UpdateHeader(doc, HeaderYear, "twenty"); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}

func TestSetImageAndClear(t *testing.T) {
	doc := SeedDocument()
	next, err := SetImage(doc, SlotHeadshot, "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	if next.Header.Image(SlotHeadshot) == "" {
		t.Fatalf("headshot not set")
	}
	cleared, err := SetImage(next, SlotHeadshot, "")
	if err != nil {
		t.Fatalf("SetImage clear: %v", err)
	}
	if cleared.Header.Headshot != "" {
		t.Fatalf("headshot not cleared")
	}
	if _, err := SetImage(doc, ImageSlot("banner"), "x"); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
}

func TestParseTargets(t *testing.T) {
	for _, name := range []string{"revenue", "expenditure", "financing-in", "financing-out"} {
		g, err := ParseGroup(name)
		if err != nil {
			t.Fatalf("ParseGroup(%q): %v", name, err)
		}
		if g.String() != name {
			t.Fatalf("round trip %q -> %q", name, g.String())
		}
	}
	if _, err := ParseGroup("pembiayaan"); err == nil {
		t.Fatalf("expected error for unknown group")
	}
	if _, err := ParseRowField("id"); err == nil {
		t.Fatalf("expected error for id field")
	}
	if _, err := ParseHeaderField("logoRegency"); err == nil {
		t.Fatalf("image slots are not text fields")
	}
	if s, err := ParseImageSlot("backgroundImage"); err != nil || s != SlotBackground {
		t.Fatalf("ParseImageSlot = %q, %v", s, err)
	}
}

func TestDocumentValidate(t *testing.T) {
	if err := SeedDocument().Validate(); err != nil {
		t.Fatalf("seed invalid: %v", err)
	}
	doc := SeedDocument()
	doc.Financing.In = append(doc.Financing.In, LineItem{ID: "fin1"})
	if err := doc.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	doc = SeedDocument()
	doc.Expenditure[1].ID = "b1"
	if err := doc.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate section id error, got %v", err)
	}
}

func TestExportFilename(t *testing.T) {
	h := Header{VillageName: "SukaMaju", Year: 2025}
	if got := ExportFilename("apbdes", h, "png"); got != "apbdes-sukamaju-2025.png" {
		t.Fatalf("filename = %q", got)
	}
}

func TestColorOrDefault(t *testing.T) {
	if ColorRose.OrDefault() != ColorRose {
		t.Fatalf("rose should be kept")
	}
	if Color("teal").OrDefault() != ColorSlate {
		t.Fatalf("unknown color should fall back to slate")
	}
}
