// Package export turns a rendered banner into downloadable files.
package export

import (
	"context"
	"errors"
	"image/color"

	"apbdes/internal/render"
)

var (
	// ErrSurfaceNotMounted is returned when there is no banner to export.
	ErrSurfaceNotMounted = errors.New("render surface not mounted")
	// ErrRasterize wraps any failure while drawing or encoding the output.
	ErrRasterize = errors.New("rasterization failed")
)

// Config tunes a single export.
type Config struct {
	// PixelRatio multiplies every logical pixel; 2 gives a retina image.
	PixelRatio float64
	// Background fills everything the banner does not cover.
	Background color.Color
	// CacheBust forces header images to be decoded again instead of being
	// served from the decoded image cache.
	CacheBust bool
}

// DefaultConfig returns the settings used by the download buttons.
func DefaultConfig() Config {
	return Config{
		PixelRatio: 2,
		Background: color.White,
		CacheBust:  true,
	}
}

func (c Config) normalized() Config {
	if c.PixelRatio <= 0 {
		c.PixelRatio = 1
	}
	if c.PixelRatio > maxPixelRatio {
		c.PixelRatio = maxPixelRatio
	}
	if c.Background == nil {
		c.Background = color.White
	}
	return c
}

const maxPixelRatio = 4

// Exporter renders a banner into an encoded file.
type Exporter interface {
	Export(ctx context.Context, b *render.Banner, cfg Config) ([]byte, error)
}

// Format describes one downloadable representation of the banner.
type Format struct {
	Name        string
	Extension   string
	ContentType string
	Exporter    Exporter
}

const (
	ContentTypePNG  = "image/png"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PNGFormat wraps e as the banner image download.
func PNGFormat(e Exporter) Format {
	return Format{Name: "png", Extension: "png", ContentType: ContentTypePNG, Exporter: e}
}

// XLSXFormat is the workbook download.
func XLSXFormat() Format {
	return Format{Name: "xlsx", Extension: "xlsx", ContentType: ContentTypeXLSX, Exporter: XLSXExporter{}}
}
