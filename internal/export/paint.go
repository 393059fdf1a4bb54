package export

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type fontKind int

const (
	fontRegular fontKind = iota
	fontBold
	fontMono
	fontMonoBold
)

var (
	fontsOnce sync.Once
	fonts     [4]*opentype.Font
	fontsErr  error
)

func loadFonts() ([4]*opentype.Font, error) {
	fontsOnce.Do(func() {
		for i, ttf := range [][]byte{goregular.TTF, gobold.TTF, gomono.TTF, gomonobold.TTF} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				fontsErr = fmt.Errorf("parse font %d: %w", i, err)
				return
			}
			fonts[i] = f
		}
	})
	return fonts, fontsErr
}

type faceKey struct {
	kind fontKind
	size float64
}

// rect is a rectangle in logical (unscaled) pixels.
type rect struct{ x, y, w, h float64 }

func (r rect) right() float64 { return r.x + r.w }
func (r rect) bottom() float64 { return r.y + r.h }

// canvas paints in logical pixels onto a scaled RGBA image. With a nil dst
// every paint call is a no-op, which lets the layout run once to measure the
// banner height before anything is allocated.
type canvas struct {
	dst   *image.RGBA
	scale float64
	fonts [4]*opentype.Font
	faces map[faceKey]font.Face
	err   error
}

func newCanvas(scale float64) (*canvas, error) {
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &canvas{scale: scale, fonts: f, faces: make(map[faceKey]font.Face)}, nil
}

func (c *canvas) close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}

func (c *canvas) px(v float64) int { return int(math.Round(v * c.scale)) }

func (c *canvas) pixelRect(r rect) image.Rectangle {
	return image.Rect(c.px(r.x), c.px(r.y), c.px(r.right()), c.px(r.bottom()))
}

func (c *canvas) face(kind fontKind, size float64) font.Face {
	key := faceKey{kind, size}
	if f, ok := c.faces[key]; ok {
		return f
	}
	f, err := opentype.NewFace(c.fonts[kind], &opentype.FaceOptions{
		Size:    size * c.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		if c.err == nil {
			c.err = fmt.Errorf("font face %d@%v: %w", kind, size, err)
		}
		f = fallbackFace{}
	}
	c.faces[key] = f
	return f
}

func lineHeight(size float64) float64 { return math.Ceil(size * 1.35) }

// measure returns the advance width of s in logical pixels.
func (c *canvas) measure(s string, kind fontKind, size float64) float64 {
	return float64(font.MeasureString(c.face(kind, size), s)) / 64 / c.scale
}

// text draws s with its baseline at y.
func (c *canvas) text(x, y float64, s string, kind fontKind, size float64, col color.Color) {
	if c.dst == nil || s == "" {
		return
	}
	d := font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: c.face(kind, size),
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * c.scale * 64), Y: fixed.Int26_6(y * c.scale * 64)},
	}
	d.DrawString(s)
}

func (c *canvas) textRight(right, y float64, s string, kind fontKind, size float64, col color.Color) {
	c.text(right-c.measure(s, kind, size), y, s, kind, size, col)
}

func (c *canvas) textCenter(cx, y float64, s string, kind fontKind, size float64, col color.Color) {
	c.text(cx-c.measure(s, kind, size)/2, y, s, kind, size, col)
}

// wrap breaks s into lines no wider than width. Words longer than width get
// a line of their own.
func (c *canvas) wrap(s string, kind fontKind, size, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if c.measure(line+" "+w, kind, size) <= width {
			line += " " + w
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// paragraph draws lines starting at top and returns the height used.
func (c *canvas) paragraph(x, top float64, lines []string, kind fontKind, size float64, col color.Color) float64 {
	lh := lineHeight(size)
	for i, l := range lines {
		c.text(x, top+float64(i)*lh+baseline(size), l, kind, size, col)
	}
	return float64(len(lines)) * lh
}

// baseline is the offset from the top of a line box to its baseline.
func baseline(size float64) float64 { return math.Round(lineHeight(size)*0.76 + 0.5) }

func (c *canvas) fill(r rect, col color.Color) {
	if c.dst == nil {
		return
	}
	draw.Draw(c.dst, c.pixelRect(r), image.NewUniform(col), image.Point{}, draw.Over)
}

// path fills the shape built by fn inside r. fn works in a w x h coordinate
// space stretched over r.
func (c *canvas) path(r rect, w, h float64, col color.Color, fn func(p *pen)) {
	if c.dst == nil {
		return
	}
	pr := c.pixelRect(r)
	if pr.Empty() {
		return
	}
	z := vector.NewRasterizer(pr.Dx(), pr.Dy())
	z.DrawOp = draw.Over
	fn(&pen{z: z, sx: float32(pr.Dx()) / float32(w), sy: float32(pr.Dy()) / float32(h)})
	z.Draw(c.dst, pr, image.NewUniform(col), image.Point{})
}

func (c *canvas) roundRect(r rect, radius float64, col color.Color) {
	c.path(r, r.w, r.h, col, func(p *pen) { p.roundRect(0, 0, r.w, r.h, radius) })
}

func (c *canvas) circle(r rect, col color.Color) {
	c.path(r, r.w, r.h, col, func(p *pen) { p.ellipse(r.w/2, r.h/2, r.w/2, r.h/2) })
}

// picture draws img into r, cropping to cover it when cover is set and
// letterboxing it otherwise.
func (c *canvas) picture(img image.Image, r rect, cover bool) {
	if c.dst == nil || img == nil {
		return
	}
	pr := c.pixelRect(r)
	if pr.Empty() {
		return
	}
	var scaled *image.NRGBA
	if cover {
		scaled = imaging.Fill(img, pr.Dx(), pr.Dy(), imaging.Center, imaging.Lanczos)
	} else {
		scaled = imaging.Fit(img, pr.Dx(), pr.Dy(), imaging.Lanczos)
	}
	sb := scaled.Bounds()
	at := image.Pt(pr.Min.X+(pr.Dx()-sb.Dx())/2, pr.Min.Y+(pr.Dy()-sb.Dy())/2)
	draw.Draw(c.dst, image.Rectangle{Min: at, Max: at.Add(sb.Size())}, scaled, sb.Min, draw.Over)
}

// pen draws path segments into a vector rasterizer with a uniform scale.
type pen struct {
	z      *vector.Rasterizer
	sx, sy float32
}

func (p *pen) moveTo(x, y float64) { p.z.MoveTo(float32(x)*p.sx, float32(y)*p.sy) }
func (p *pen) lineTo(x, y float64) { p.z.LineTo(float32(x)*p.sx, float32(y)*p.sy) }
func (p *pen) close() { p.z.ClosePath() }

func (p *pen) cubeTo(x1, y1, x2, y2, x, y float64) {
	p.z.CubeTo(float32(x1)*p.sx, float32(y1)*p.sy, float32(x2)*p.sx, float32(y2)*p.sy, float32(x)*p.sx, float32(y)*p.sy)
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

func (p *pen) ellipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.moveTo(cx+rx, cy)
	p.cubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.cubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.cubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.cubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.close()
}

func (p *pen) roundRect(x, y, w, h, r float64) {
	r = math.Min(r, math.Min(w, h)/2)
	k := r * kappa
	p.moveTo(x+r, y)
	p.lineTo(x+w-r, y)
	p.cubeTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.lineTo(x+w, y+h-r)
	p.cubeTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.lineTo(x+r, y+h)
	p.cubeTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.lineTo(x, y+r)
	p.cubeTo(x, y+r-k, x+r-k, y, x+r, y)
	p.close()
}

// fallbackFace stands in for a face that failed to load so layout can
// finish; the failure itself is reported through canvas.err.
type fallbackFace struct{}

func (fallbackFace) Close() error { return nil }
func (fallbackFace) Glyph(fixed.Point26_6, rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return image.Rectangle{}, nil, image.Point{}, 0, false
}
func (fallbackFace) GlyphBounds(rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.Rectangle26_6{}, 0, false
}
func (fallbackFace) GlyphAdvance(rune) (fixed.Int26_6, bool) { return 0, false }
func (fallbackFace) Kern(rune, rune) fixed.Int26_6 { return 0 }
func (fallbackFace) Metrics() font.Metrics { return font.Metrics{} }
