package export

import "image/color"

var (
	shieldOuter  = color.RGBA{0xa5, 0xf3, 0xfc, 0xff}
	shieldInner  = color.RGBA{0x0c, 0x4a, 0x6e, 0xff}
	ministryRing = color.RGBA{0x15, 0x80, 0x3d, 0xff}
	silhouette   = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	portraitBox  = color.RGBA{0xe2, 0xe8, 0xf0, 0xff}
	portraitDim  = color.NRGBA{0x64, 0x74, 0x8b, 0x4d}
)

// fitBox returns the largest w:h box centered in r.
func fitBox(r rect, w, h float64) rect {
	s := r.w / w
	if r.h/h < s {
		s = r.h / h
	}
	bw, bh := w*s, h*s
	return rect{r.x + (r.w-bw)/2, r.y + (r.h-bh)/2, bw, bh}
}

// regencyPlaceholder draws the generic shield logo on a 50x55 grid.
func (c *canvas) regencyPlaceholder(r rect) {
	box := fitBox(r, 50, 55)
	c.path(box, 50, 55, shieldOuter, func(p *pen) {
		p.moveTo(25, 0)
		p.lineTo(50, 12.5)
		p.lineTo(50, 29.16)
		p.cubeTo(50, 45.83, 37.5, 55, 25, 55)
		p.cubeTo(12.5, 55, 0, 45.83, 0, 29.16)
		p.lineTo(0, 12.5)
		p.close()
	})
	c.path(box, 50, 55, shieldInner, func(p *pen) {
		p.moveTo(25, 5)
		p.lineTo(45, 15.5)
		p.lineTo(45, 29.16)
		p.cubeTo(45, 42.5, 35, 50, 25, 50)
		p.cubeTo(15, 50, 5, 42.5, 5, 29.16)
		p.lineTo(5, 15.5)
		p.close()
	})
	unit := box.w / 50
	c.textCenter(box.x+25*unit, box.y+32*unit, "KABUPATEN", fontBold, 6.5*unit, color.White)
}

// ministryPlaceholder draws the generic ring and diamond logo on a 55x55 grid.
func (c *canvas) ministryPlaceholder(r rect) {
	box := fitBox(r, 55, 55)
	unit := box.w / 55
	c.circle(box, ministryRing)
	inset := 4 * unit
	c.circle(rect{box.x + inset, box.y + inset, box.w - 2*inset, box.h - 2*inset}, color.White)
	c.path(box, 55, 55, ministryRing, func(p *pen) {
		p.moveTo(27.5, 14)
		p.lineTo(41.5, 28)
		p.lineTo(27.5, 42)
		p.lineTo(13.5, 28)
		p.close()
	})
	c.textCenter(box.x+27.5*unit, box.y+31*unit, "KEMENDESA", fontBold, 4.2*unit, color.White)
}

// headshotPlaceholder draws a neutral silhouette on a 20x20 grid centered
// in a tinted box.
func (c *canvas) headshotPlaceholder(r rect, translucent bool) {
	if translucent {
		c.roundRect(r, 8, portraitDim)
	} else {
		c.roundRect(r, 8, portraitBox)
	}
	icon := fitBox(rect{r.x + r.w/4, r.y + r.h/4, r.w / 2, r.h / 2}, 20, 20)
	c.path(icon, 20, 20, silhouette, func(p *pen) {
		p.ellipse(10, 6, 3, 3)
		// Upper half of a radius 7 circle standing on y=18.
		k := 7 * kappa
		p.moveTo(3, 18)
		p.cubeTo(3, 18-k, 10-k, 11, 10, 11)
		p.cubeTo(10+k, 11, 17, 18-k, 17, 18)
		p.close()
	})
}
