package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"apbdes/internal/cache"
	"apbdes/internal/core"
	"apbdes/internal/imagedata"
	"apbdes/internal/render"
)

// maxPixels caps the raster size of one export, about 256 MB of RGBA.
const maxPixels = 64 << 20

// PNGExporter rasterizes a banner in process with the Go fonts.
type PNGExporter struct {
	images cache.Cache[image.Image]
	decode func(ref string) (image.Image, error)
}

// NewPNGExporter returns an exporter that keeps decoded header images in
// images. A nil cache disables caching.
func NewPNGExporter(images cache.Cache[image.Image]) *PNGExporter {
	return &PNGExporter{images: images, decode: imagedata.Decode}
}

// Export draws b and returns the encoded PNG. The image is bannerWidth
// logical pixels wide times cfg.PixelRatio. The deadline of ctx is checked
// throughout layout and before encoding; banners above maxPixels fail with
// ErrRasterize before any pixels are allocated.
func (e *PNGExporter) Export(ctx context.Context, b *render.Banner, cfg Config) ([]byte, error) {
	if b == nil {
		return nil, ErrSurfaceNotMounted
	}
	cfg = cfg.normalized()

	images, err := e.loadImages(ctx, b, cfg.CacheBust)
	if err != nil {
		return nil, err
	}

	c, err := newCanvas(cfg.PixelRatio)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	defer c.close()

	l := newLayout(ctx, c, b, images)
	height := l.draw()
	if l.halted() {
		return nil, l.halt
	}

	w, h := c.px(bannerWidth), c.px(height)
	if w*h > maxPixels {
		return nil, fmt.Errorf("%w: banner is %dx%d pixels, limit is %d", ErrRasterize, w, h, maxPixels)
	}

	c.dst = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(cfg.Background), image.Point{}, draw.Src)
	if bg := images[core.SlotBackground]; bg != nil {
		full := rect{0, 0, bannerWidth, height}
		c.picture(bg, full, true)
		c.fill(full, backdropShade)
	}
	l.draw()
	if l.halted() {
		return nil, l.halt
	}
	if c.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, c.err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.dst); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", ErrRasterize, err)
	}
	return buf.Bytes(), nil
}

// loadImages decodes every non-empty image slot concurrently.
func (e *PNGExporter) loadImages(ctx context.Context, b *render.Banner, bust bool) (slotImages, error) {
	refs := map[core.ImageSlot]string{
		core.SlotHeadshot:     b.Headshot.Ref,
		core.SlotLogoRegency:  b.LogoRegency.Ref,
		core.SlotLogoMinistry: b.LogoMinistry.Ref,
		core.SlotBackground:   b.Background,
	}

	decoded := make([]image.Image, len(core.ImageSlots))
	g, ctx := errgroup.WithContext(ctx)
	for i, slot := range core.ImageSlots {
		ref := refs[slot]
		if ref == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := e.image(ref, bust)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrRasterize, slot, err)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := make(slotImages, len(decoded))
	for i, img := range decoded {
		if img != nil {
			images[core.ImageSlots[i]] = img
		}
	}
	return images, nil
}

func (e *PNGExporter) image(ref string, bust bool) (image.Image, error) {
	sum := sha256.Sum256([]byte(ref))
	key := hex.EncodeToString(sum[:])
	if e.images != nil && !bust {
		if img, ok := e.images.Get(key); ok {
			return img, nil
		}
	}
	img, err := e.decode(ref)
	if err != nil {
		return nil, err
	}
	if e.images != nil && !bust {
		e.images.Set(key, img)
	}
	return img, nil
}
