// Package render builds the banner view model shared by the HTML templates
// and the rasterizing exporter, so both surfaces print the same figures.
package render

import (
	"strings"

	"apbdes/internal/core"
	"apbdes/internal/format"
)

const (
	TitleKicker         = "INFOGRAFIS PERUBAHAN"
	TitleMain           = "APBDES"
	LabelRevenueCard    = "PENDAPATAN"
	LabelRevenueTotal   = "JUMLAH PENDAPATAN"
	LabelExpenditure    = "BELANJA"
	LabelSectionTotal   = "JUMLAH"
	LabelExpenditureSum = "JUMLAH TOTAL BELANJA"
	LabelSurplus        = "SURPLUS / (DEFISIT)"
	LabelFinancingIn    = "Penerimaan Pembiayaan"
	LabelFinancingOut   = "Pengeluaran Pembiayaan"
	LabelTotalIn        = "Total Penerimaan"
	LabelTotalOut       = "Total Pengeluaran"
	LabelNetFinancing   = "PEMBIAYAAN NETTO"
	LabelResidual       = "SISA LEBIH / (KURANG) PEMBIAYAAN ANGGARAN"
)

// Columns are the table headings of every card.
var Columns = [4]string{"URAIAN", "SEMULA", "MENJADI", "PERUBAHAN"}

type (
	// Row is one formatted line item.
	Row struct {
		Index       int
		ID          string
		Description string
		Initial     string
		Final       string
		Change      string
		ChangeTone  format.Tone
	}

	// Total is a formatted total line. InitialTone and FinalTone flag
	// negative figures such as a deficit.
	Total struct {
		Label       string
		Initial     string
		Final       string
		Change      string
		InitialTone format.Tone
		FinalTone   format.Tone
		ChangeTone  format.Tone
	}

	// Card is a titled, colored table. Group and Section address the rows
	// for the editor.
	Card struct {
		Title   string
		Color   core.Color
		Group   core.Group
		Section int
		Rows    []Row
		Total   Total
	}

	// Image is a header image slot. Placeholder is set when the slot is
	// empty and a generic glyph must be drawn instead.
	Image struct {
		Slot        core.ImageSlot
		Ref         string
		Alt         string
		Placeholder bool
	}

	// Banner is the complete render surface.
	Banner struct {
		Document core.Document
		Totals   core.Totals

		Year          int
		Subtitle      string
		Headshot      Image
		LogoRegency   Image
		LogoMinistry  Image
		Background    string
		HasBackground bool

		Revenue          Card
		Expenditure      []Card
		ExpenditureTotal Total
		SurplusDeficit   Total
		FinancingIn      Card
		FinancingOut     Card
		NetFinancing     Total
		Residual         Total
	}
)

// Build derives the banner for doc.
func Build(doc core.Document) *Banner {
	t := core.Aggregate(doc)
	h := doc.Header
	b := &Banner{
		Document:      doc,
		Totals:        t,
		Year:          h.Year,
		Subtitle:      Subtitle(h),
		Headshot:      slotImage(core.SlotHeadshot, h, h.HeadOfVillageName),
		LogoRegency:   slotImage(core.SlotLogoRegency, h, "Logo Kabupaten"),
		LogoMinistry:  slotImage(core.SlotLogoMinistry, h, "Logo Kemendesa"),
		Background:    h.Background,
		HasBackground: h.Background != "",

		Revenue:          card(LabelRevenueCard, core.ColorGreen, core.Revenue(), doc.Revenue, LabelRevenueTotal, t.Revenue),
		ExpenditureTotal: total(LabelExpenditureSum, t.Expenditure),
		SurplusDeficit:   total(LabelSurplus, t.SurplusDeficit),
		FinancingIn:      card(LabelFinancingIn, core.ColorIndigo, core.FinancingIn(), doc.Financing.In, LabelTotalIn, t.FinancingIn),
		FinancingOut:     card(LabelFinancingOut, core.ColorIndigo, core.FinancingOut(), doc.Financing.Out, LabelTotalOut, t.FinancingOut),
		NetFinancing:     total(LabelNetFinancing, t.NetFinancing),
		Residual:         total(LabelResidual, t.Residual),
	}
	b.Expenditure = make([]Card, len(doc.Expenditure))
	for i, s := range doc.Expenditure {
		b.Expenditure[i] = card(s.Title, s.Color.OrDefault(), core.Expenditure(i), s.Rows, LabelSectionTotal, t.Sections[i])
	}
	return b
}

// Subtitle is the line under the title, e.g. "Desa Sukamaju Kec. Cikoneng".
func Subtitle(h core.Header) string {
	parts := []string{"Desa " + h.VillageName, "Kec. " + h.DistrictName}
	if strings.TrimSpace(h.RegencyName) != "" {
		parts = append(parts, "Kab. "+h.RegencyName)
	}
	return strings.Join(parts, " ")
}

func slotImage(slot core.ImageSlot, h core.Header, alt string) Image {
	ref := h.Image(slot)
	return Image{Slot: slot, Ref: ref, Alt: alt, Placeholder: ref == ""}
}

func card(title string, color core.Color, target core.RowTarget, rows []core.LineItem, totalLabel string, sum core.Pair) Card {
	c := Card{
		Title:   title,
		Color:   color,
		Group:   target.Group,
		Section: target.Section,
		Rows:    make([]Row, len(rows)),
		Total:   total(totalLabel, sum),
	}
	for i, r := range rows {
		c.Rows[i] = Row{
			Index:       i,
			ID:          r.ID,
			Description: r.Description,
			Initial:     format.Rupiah(r.Initial),
			Final:       format.Rupiah(r.Final),
			Change:      format.Change(r.Change()),
			ChangeTone:  format.ToneOf(r.Change()),
		}
	}
	return c
}

func total(label string, p core.Pair) Total {
	return Total{
		Label:       label,
		Initial:     format.Rupiah(p.Initial),
		Final:       format.Rupiah(p.Final),
		Change:      format.Change(p.Change()),
		InitialTone: format.ToneOf(p.Initial),
		FinalTone:   format.ToneOf(p.Final),
		ChangeTone:  format.ToneOf(p.Change()),
	}
}

// Swatch is the RGB fill of a card header band.
type Swatch struct{ R, G, B uint8 }

var swatches = map[core.Color]Swatch{
	core.ColorBlue:   {0x25, 0x63, 0xeb},
	core.ColorGreen:  {0x16, 0xa3, 0x4a},
	core.ColorPurple: {0x93, 0x33, 0xea},
	core.ColorAmber:  {0xf5, 0x9e, 0x0b},
	core.ColorRose:   {0xe1, 0x1d, 0x48},
	core.ColorIndigo: {0x4f, 0x46, 0xe5},
	core.ColorSlate:  {0x47, 0x55, 0x69},
}

// SwatchOf returns the fill for c; unknown colors get slate.
func SwatchOf(c core.Color) Swatch {
	return swatches[c.OrDefault()]
}
