package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"apbdes/internal/core"
	"apbdes/internal/render"
)

func TestXLSXExport(t *testing.T) {
	data, err := XLSXExporter{}.Export(context.Background(), render.Build(core.SeedDocument()), DefaultConfig())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue(SheetName, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if title != "INFOGRAFIS PERUBAHAN APBDES 2025" {
		t.Fatalf("A1 = %q", title)
	}

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	find := func(label string) []string {
		for _, r := range rows {
			if len(r) > 0 && r[0] == label {
				return r
			}
		}
		t.Fatalf("no row labelled %q", label)
		return nil
	}

	if r := find(render.LabelRevenueTotal); len(r) < 4 || r[1] != "3315757600" || r[3] != "0" {
		t.Fatalf("revenue total row = %v", r)
	}
	if r := find("Sub Bidang Pertanian dan Peternakan"); len(r) < 4 || r[2] != "5000000" || r[3] != "-59151000" {
		t.Fatalf("line item row = %v", r)
	}
	if r := find(render.LabelNetFinancing); len(r) < 3 || r[2] != "945403478" {
		t.Fatalf("net financing row = %v", r)
	}
}

func TestXLSXExportNilSurface(t *testing.T) {
	if _, err := (XLSXExporter{}).Export(context.Background(), nil, Config{}); !errors.Is(err, ErrSurfaceNotMounted) {
		t.Fatalf("expected ErrSurfaceNotMounted, got %v", err)
	}
}
