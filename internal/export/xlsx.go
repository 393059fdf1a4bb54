package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"apbdes/internal/core"
	"apbdes/internal/render"
)

// SheetName is the single worksheet of an exported workbook.
const SheetName = "APBDES"

const (
	amountFormat = "#,##0"
	changeFormat = "#,##0;(#,##0)"
)

// XLSXExporter writes the banner tables into a workbook with numeric
// amount cells, so the figures can be reused in a spreadsheet.
type XLSXExporter struct{}

// Export ignores cfg; a workbook has no pixel ratio or background.
func (XLSXExporter) Export(ctx context.Context, b *render.Banner, _ Config) ([]byte, error) {
	if b == nil {
		return nil, ErrSurfaceNotMounted
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("%w: rename sheet: %w", ErrRasterize, err)
	}
	w, err := newSheetWriter(f)
	if err != nil {
		return nil, fmt.Errorf("%w: styles: %w", ErrRasterize, err)
	}

	w.title(b)
	w.card(b, b.Revenue, b.Totals.Revenue)
	w.heading(render.LabelExpenditure)
	for i, cd := range b.Expenditure {
		w.card(b, cd, b.Totals.Sections[i])
	}
	w.total(b.ExpenditureTotal.Label, b.Totals.Expenditure)
	w.total(b.SurplusDeficit.Label, b.Totals.SurplusDeficit)
	w.blank()
	w.card(b, b.FinancingIn, b.Totals.FinancingIn)
	w.card(b, b.FinancingOut, b.Totals.FinancingOut)
	w.total(b.NetFinancing.Label, b.Totals.NetFinancing)
	w.total(b.Residual.Label, b.Totals.Residual)

	if w.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, w.err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: write workbook: %w", ErrRasterize, err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows top to bottom and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	row   int
	err   error
	style sheetStyles
	bands map[core.Color]int
}

type sheetStyles struct {
	title, bold, header int
	amount, change      int
	totalAmt, totalChg  int
}

func newSheetWriter(f *excelize.File) (*sheetWriter, error) {
	w := &sheetWriter{f: f, row: 1, bands: make(map[core.Color]int)}
	amount, change := amountFormat, changeFormat
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&w.style.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&w.style.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&w.style.header, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Color: "64748B"},
			Border: []excelize.Border{{Type: "bottom", Color: "CBD5E1", Style: 1}},
		}},
		{&w.style.amount, &excelize.Style{CustomNumFmt: &amount}},
		{&w.style.change, &excelize.Style{CustomNumFmt: &change}},
		{&w.style.totalAmt, &excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &amount}},
		{&w.style.totalChg, &excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &change}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			return nil, err
		}
		*s.dst = id
	}
	if err := f.SetColWidth(SheetName, "A", "A", 64); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "D", 18); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *sheetWriter) band(c core.Color) int {
	if id, ok := w.bands[c]; ok {
		return id
	}
	sw := render.SwatchOf(c)
	id, err := w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fmt.Sprintf("%02X%02X%02X", sw.R, sw.G, sw.B)}},
	})
	if err != nil {
		w.fail(err)
		return 0
	}
	w.bands[c] = id
	return id
}

func (w *sheetWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *sheetWriter) cell(col int) string {
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.fail(err)
	}
	return name
}

func (w *sheetWriter) set(col int, v any, style int) {
	if w.err != nil {
		return
	}
	c := w.cell(col)
	if err := w.f.SetCellValue(SheetName, c, v); err != nil {
		w.fail(err)
		return
	}
	if style != 0 {
		if err := w.f.SetCellStyle(SheetName, c, c, style); err != nil {
			w.fail(err)
		}
	}
}

func (w *sheetWriter) merged(v string, style int) {
	w.set(1, v, style)
	if w.err != nil {
		return
	}
	if err := w.f.MergeCell(SheetName, w.cell(1), w.cell(4)); err != nil {
		w.fail(err)
		return
	}
	if err := w.f.SetCellStyle(SheetName, w.cell(1), w.cell(4), style); err != nil {
		w.fail(err)
	}
}

func (w *sheetWriter) blank() { w.row++ }

func (w *sheetWriter) title(b *render.Banner) {
	w.merged(render.TitleKicker+" "+render.TitleMain+" "+strconv.Itoa(b.Year), w.style.title)
	w.row++
	w.merged(b.Subtitle, w.style.bold)
	w.row++
	w.blank()
}

func (w *sheetWriter) heading(label string) {
	w.merged(label, w.band(core.ColorSlate))
	w.row++
}

func (w *sheetWriter) pair(p core.Pair, amount, change int) {
	w.set(2, p.Initial.Int64(), amount)
	w.set(3, p.Final.Int64(), amount)
	w.set(4, p.Change().Int64(), change)
}

// card writes a titled table. Amounts come from the document rather than
// the formatted card so the cells stay numeric.
func (w *sheetWriter) card(b *render.Banner, cd render.Card, sum core.Pair) {
	w.merged(cd.Title, w.band(cd.Color))
	w.row++
	for i, col := range render.Columns {
		w.set(i+1, col, w.style.header)
	}
	w.row++

	rows, err := b.Document.Rows(core.RowTarget{Group: cd.Group, Section: cd.Section})
	if err != nil {
		w.fail(err)
		return
	}
	for _, r := range rows {
		w.set(1, r.Description, 0)
		w.pair(r.Pair(), w.style.amount, w.style.change)
		w.row++
	}
	w.set(1, cd.Total.Label, w.style.bold)
	w.pair(sum, w.style.totalAmt, w.style.totalChg)
	w.row++
	w.blank()
}

func (w *sheetWriter) total(label string, p core.Pair) {
	w.set(1, label, w.style.bold)
	w.pair(p, w.style.totalAmt, w.style.totalChg)
	w.row++
}
