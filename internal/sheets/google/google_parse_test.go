package google

import (
	"errors"
	"strings"
	"testing"

	"apbdes/internal/core"
)

func TestParseSeed(t *testing.T) {
	values := [][]interface{}{
		{"Kind", "Section", "Color", "ID", "Description", "Initial", "Final"},
		{"header", "villageName", "", "", "Sukamaju"},
		{"header", "districtName", "", "", "Cikoneng"},
		{"header", "year", "", "", 2026.0},
		{"revenue", "", "", "pad1", "Pendapatan Asli Desa", 40325000.0, 40325000.0},
		{"revenue", "", "", "", "Dana Desa", "934.850.000", "900.000.000"},
		{},
		{"# comment rows are skipped"},
		{"expenditure", "BIDANG PEMERINTAHAN", "Blue", "", "Siltap", 550550284.0, 550550284.0},
		{"expenditure", "BIDANG PEMBANGUNAN", "green", "", "Jalan", 100.0, 250.0},
		{"expenditure", "BIDANG PEMERINTAHAN", "blue", "", "Arsip", 10.0},
		{"financing-in", "", "", "", "SILPA", 681171239.0, 681171239.0},
		{"financing-out", "", "", "", "Dana Cadangan", 5000000.0, 6600000.0},
	}
	doc, err := parseSeed(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if doc.Header.VillageName != "Sukamaju" || doc.Header.DistrictName != "Cikoneng" || doc.Header.Year != 2026 {
		t.Fatalf("header = %+v", doc.Header)
	}
	if len(doc.Revenue) != 2 || doc.Revenue[1].ID != "pendapatan-2" || doc.Revenue[1].Final != 900000000 {
		t.Fatalf("revenue = %+v", doc.Revenue)
	}
	if len(doc.Expenditure) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Expenditure))
	}
	gov := doc.Expenditure[0]
	if gov.ID != "b1" || gov.Color != core.ColorBlue || len(gov.Rows) != 2 || gov.Rows[1].ID != "b1r2" {
		t.Fatalf("first section = %+v", gov)
	}
	if gov.Rows[1].Final != 0 {
		t.Fatalf("missing final cell should be zero, got %d", gov.Rows[1].Final)
	}
	tot := core.Aggregate(doc)
	if tot.NetFinancing.Final != 681171239-6600000 {
		t.Fatalf("net financing = %+v", tot.NetFinancing)
	}
}

func TestParseSeedErrors(t *testing.T) {
	header := []interface{}{"Kind", "Section", "Color", "ID", "Description", "Initial", "Final"}
	cases := []struct {
		name   string
		values [][]interface{}
		want   error
		substr string
	}{
		{"empty", nil, nil, "empty seed sheet"},
		{"missing columns", [][]interface{}{{"Kind", "Description"}}, nil, "missing Section,Color,ID,Initial,Final"},
		{"unknown kind", [][]interface{}{header, {"pendapatan", "", "", "", "x", 1.0, 1.0}}, core.ErrUnknownGroup, "row 2"},
		{"bad amount", [][]interface{}{header, {"revenue", "", "", "", "x", "abc", 1.0}}, core.ErrInvalidAmount, "row 2 initial"},
		{"bad year", [][]interface{}{header, {"header", "year", "", "", "soon"}}, core.ErrInvalidYear, "row 2"},
		{"no section", [][]interface{}{header, {"expenditure", "", "", "", "x", 1.0, 1.0}}, nil, "without section title"},
		{"duplicate ids", [][]interface{}{header, {"revenue", "", "", "a", "x"}, {"revenue", "", "", "a", "y"}}, core.ErrDuplicateID, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseSeed(tc.values)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Fatalf("error %q does not mention %q", err, tc.substr)
			}
		})
	}
}
