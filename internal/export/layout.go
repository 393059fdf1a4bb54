package export

import (
	"context"
	"image"
	"image/color"
	"math"
	"strconv"

	"apbdes/internal/core"
	"apbdes/internal/format"
	"apbdes/internal/render"
)

// Logical geometry of the banner, before the pixel ratio is applied.
const (
	bannerWidth = 1200.0
	margin      = 32.0
	gutter      = 24.0
	radius      = 12.0
	cellPad     = 10.0
	rowPad      = 6.0
	bodySize    = 13.0
	amountSize  = 12.0
)

// rowCheck is how many table rows are laid out between deadline checks.
const rowCheck = 32

var (
	inkText       = color.RGBA{0x1e, 0x29, 0x3b, 0xff}
	inkMuted      = color.RGBA{0x64, 0x74, 0x8b, 0xff}
	inkPositive   = color.RGBA{0x16, 0xa3, 0x4a, 0xff}
	inkNegative   = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	inkOnDark     = color.White
	inkCaption    = color.NRGBA{0xff, 0xff, 0xff, 0xb3}
	inkPosOnDark  = color.RGBA{0x86, 0xef, 0xac, 0xff}
	inkNegOnDark  = color.RGBA{0xfc, 0xa5, 0xa5, 0xff}
	titleGreen    = color.RGBA{0x15, 0x80, 0x3d, 0xff}
	yearRed       = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	stripe        = color.NRGBA{0xe2, 0xe8, 0xf0, 0x80}
	rule          = color.RGBA{0xcb, 0xd5, 0xe1, 0xff}
	headingFill   = color.RGBA{0x1e, 0x29, 0x3b, 0xff}
	surplusFill   = color.RGBA{0x33, 0x41, 0x55, 0xff}
	residualFill  = color.RGBA{0x15, 0x80, 0x3d, 0xff}
	panelSolid    = color.White
	panelGlass    = color.NRGBA{0xff, 0xff, 0xff, 0xb3}
	backdropShade = color.NRGBA{0x00, 0x00, 0x00, 0x1a}
)

// slotImages holds the decoded header images; a missing slot is drawn as
// its placeholder.
type slotImages map[core.ImageSlot]image.Image

type layout struct {
	*canvas
	ctx    context.Context
	b      *render.Banner
	images slotImages
	panel  color.Color
	halt   error
}

func newLayout(ctx context.Context, c *canvas, b *render.Banner, images slotImages) *layout {
	l := &layout{canvas: c, ctx: ctx, b: b, images: images, panel: panelSolid}
	if b.HasBackground {
		l.panel = panelGlass
	}
	return l
}

// halted reports whether the export context has expired. The first error
// seen is kept in halt and the rest of the layout is skipped.
func (l *layout) halted() bool {
	if l.halt == nil {
		l.halt = l.ctx.Err()
	}
	return l.halt != nil
}

// draw lays out the whole banner and returns its logical height. A halted
// layout returns early with a partial height.
func (l *layout) draw() float64 {
	y := margin
	y = l.header(y) + gutter
	if l.halted() {
		return y
	}

	revenue := l.measureCard(bannerWidth-2*margin, l.b.Revenue)
	l.card(margin, y, bannerWidth-2*margin, l.b.Revenue, revenue)
	y += revenue + gutter
	if l.halted() {
		return y
	}

	y = l.heading(y, render.LabelExpenditure)
	y = l.grid(y, l.b.Expenditure)
	if l.halted() {
		return y
	}
	y = l.totalBand(y, l.b.ExpenditureTotal, headingFill)
	y = l.totalBand(y, l.b.SurplusDeficit, surplusFill)

	y = l.grid(y, []render.Card{l.b.FinancingIn, l.b.FinancingOut})
	if l.halted() {
		return y
	}
	sw := render.SwatchOf(core.ColorIndigo)
	y = l.totalBand(y, l.b.NetFinancing, color.RGBA{sw.R, sw.G, sw.B, 0xff})
	y = l.totalBand(y, l.b.Residual, residualFill)

	return y - gutter + margin
}

func (l *layout) header(y float64) float64 {
	w := bannerWidth - 2*margin
	right := margin + w - 24
	portrait := rect{margin + 24, 0, 128, 160}
	ministry := rect{right - 115, 0, 115, 115}
	regency := rect{ministry.x - 16 - 88, 0, 88, 96}

	tx := portrait.right() + 28
	sub := l.wrap(l.b.Subtitle, fontBold, 20, regency.x-24-tx)
	h := math.Max(212, 142+float64(len(sub))*lineHeight(20)+24)
	for _, r := range []*rect{&portrait, &ministry, &regency} {
		r.y = y + (h-r.h)/2
	}

	l.roundRect(rect{margin, y, w, h}, radius, l.panel)
	l.slot(core.SlotHeadshot, portrait, true, func(r rect) { l.headshotPlaceholder(r, l.b.HasBackground) })
	l.slot(core.SlotLogoRegency, regency, false, l.regencyPlaceholder)
	l.slot(core.SlotLogoMinistry, ministry, false, l.ministryPlaceholder)

	l.text(tx, y+28+baseline(22), render.TitleKicker, fontBold, 22, inkText)
	ty := y + 58 + baseline(60)
	l.text(tx, ty, render.TitleMain, fontBold, 60, titleGreen)
	l.text(tx+l.measure(render.TitleMain+" ", fontBold, 60), ty, strconv.Itoa(l.b.Year), fontBold, 60, yearRed)
	l.paragraph(tx, y+142, sub, fontBold, 20, inkText)
	return y + h
}

func (l *layout) slot(s core.ImageSlot, r rect, cover bool, placeholder func(rect)) {
	if img := l.images[s]; img != nil {
		l.picture(img, r, cover)
		return
	}
	placeholder(r)
}

func (l *layout) heading(y float64, label string) float64 {
	w := l.measure(label, fontBold, 24) + 64
	h := lineHeight(24) + 16
	l.roundRect(rect{(bannerWidth - w) / 2, y, w, h}, h/2, headingFill)
	l.textCenter(bannerWidth/2, y+8+baseline(24), label, fontBold, 24, inkOnDark)
	return y + h + gutter
}

// grid places cards two per line, giving both cards of a line the same
// height.
func (l *layout) grid(y float64, cards []render.Card) float64 {
	colW := (bannerWidth - 2*margin - gutter) / 2
	for i := 0; i < len(cards); i += 2 {
		if l.halted() {
			break
		}
		line := cards[i:min(i+2, len(cards))]
		var h float64
		for _, cd := range line {
			h = math.Max(h, l.measureCard(colW, cd))
		}
		for j, cd := range line {
			l.card(margin+float64(j)*(colW+gutter), y, colW, cd, h)
		}
		y += h + gutter
	}
	return y
}

// columns splits a table into description, initial, final and change.
func columns(x, w float64) [4]rect {
	widths := [4]float64{0.4, 0.2, 0.2, 0.2}
	var cols [4]rect
	for i, f := range widths {
		cols[i] = rect{x: x, w: w * f}
		x += w * f
	}
	return cols
}

func (l *layout) measureCard(w float64, cd render.Card) float64 {
	dst := l.dst
	l.dst = nil
	h := l.card(0, 0, w, cd, 0)
	l.dst = dst
	return h
}

// card draws one table card and returns the height its content needs. The
// panel behind it is painted height tall, so cards on one grid line align.
func (l *layout) card(x, y, w float64, cd render.Card, height float64) float64 {
	if height > 0 {
		l.roundRect(rect{x, y, w, height}, radius, l.panel)
	}
	sw := render.SwatchOf(cd.Color)
	band := color.RGBA{sw.R, sw.G, sw.B, 0xff}

	title := l.wrap(cd.Title, fontBold, 16, w-2*cellPad)
	bandH := float64(len(title))*lineHeight(16) + 2*cellPad
	l.roundRect(rect{x, y, w, bandH}, radius, band)
	l.fill(rect{x, y + bandH - radius, w, radius}, band)
	l.paragraph(x+cellPad, y+cellPad, title, fontBold, 16, inkOnDark)
	top := y + bandH

	cols := columns(x, w)
	by := top + rowPad + baseline(11)
	l.text(cols[0].x+cellPad, by, render.Columns[0], fontBold, 11, inkMuted)
	for i := 1; i < len(cols); i++ {
		l.textRight(cols[i].right()-cellPad, by, render.Columns[i], fontBold, 11, inkMuted)
	}
	top += lineHeight(11) + 2*rowPad
	l.fill(rect{x, top - 1, w, 1}, rule)

	for i, row := range cd.Rows {
		if i%rowCheck == rowCheck-1 && l.halted() {
			break
		}
		lines := l.wrap(row.Description, fontRegular, bodySize, cols[0].w-2*cellPad)
		rh := float64(len(lines))*lineHeight(bodySize) + 2*rowPad
		if i%2 == 1 {
			l.fill(rect{x, top, w, rh}, stripe)
		}
		l.paragraph(cols[0].x+cellPad, top+rowPad, lines, fontRegular, bodySize, inkText)
		by := top + rowPad + baseline(bodySize)
		l.textRight(cols[1].right()-cellPad, by, row.Initial, fontMono, amountSize, inkText)
		l.textRight(cols[2].right()-cellPad, by, row.Final, fontMono, amountSize, inkText)
		l.textRight(cols[3].right()-cellPad, by, row.Change, fontMono, amountSize, toneInk(row.ChangeTone, false))
		top += rh
	}

	t := cd.Total
	th := lineHeight(bodySize) + 2*8
	l.fill(rect{x, top, w, th}, color.NRGBA{sw.R, sw.G, sw.B, 0x24})
	l.fill(rect{x, top, w, 2}, band)
	by = top + 8 + baseline(bodySize)
	l.text(cols[0].x+cellPad, by, t.Label, fontBold, bodySize, inkText)
	l.textRight(cols[1].right()-cellPad, by, t.Initial, fontMonoBold, amountSize, amountInk(t.InitialTone, false))
	l.textRight(cols[2].right()-cellPad, by, t.Final, fontMonoBold, amountSize, amountInk(t.FinalTone, false))
	l.textRight(cols[3].right()-cellPad, by, t.Change, fontMonoBold, amountSize, toneInk(t.ChangeTone, false))
	top += th

	return top + radius - y
}

// totalBand draws a full-width summary line on a dark fill.
func (l *layout) totalBand(y float64, t render.Total, fill color.Color) float64 {
	const capSize, valSize = 10.0, 16.0
	w := bannerWidth - 2*margin
	cols := columns(margin, w)

	label := l.wrap(t.Label, fontBold, 16, cols[0].w-2*cellPad)
	labelH := float64(len(label)) * lineHeight(16)
	h := math.Max(2*12+lineHeight(capSize)+lineHeight(valSize), labelH+24)

	l.roundRect(rect{margin, y, w, h}, radius, fill)
	l.paragraph(cols[0].x+cellPad+6, y+(h-labelH)/2, label, fontBold, 16, inkOnDark)

	top := y + (h-lineHeight(capSize)-lineHeight(valSize))/2
	values := [3]struct {
		s   string
		ink color.Color
	}{
		{t.Initial, amountInk(t.InitialTone, true)},
		{t.Final, amountInk(t.FinalTone, true)},
		{t.Change, toneInk(t.ChangeTone, true)},
	}
	for i, v := range values {
		r := cols[i+1].right() - cellPad
		l.textRight(r, top+baseline(capSize), render.Columns[i+1], fontBold, capSize, inkCaption)
		l.textRight(r, top+lineHeight(capSize)+baseline(valSize), v.s, fontMonoBold, valSize, v.ink)
	}
	return y + h + gutter
}

// toneInk colors a change value.
func toneInk(t format.Tone, dark bool) color.Color {
	switch {
	case t == format.ToneNegative && dark:
		return inkNegOnDark
	case t == format.ToneNegative:
		return inkNegative
	case t == format.TonePositive && dark:
		return inkPosOnDark
	case t == format.TonePositive:
		return inkPositive
	case dark:
		return inkCaption
	}
	return inkMuted
}

// amountInk colors a plain amount: only negative figures stand out.
func amountInk(t format.Tone, dark bool) color.Color {
	switch {
	case t == format.ToneNegative && dark:
		return inkNegOnDark
	case t == format.ToneNegative:
		return inkNegative
	case dark:
		return inkOnDark
	}
	return inkText
}
