// Package imagedata turns uploaded header images into embeddable data URLs
// and decodes those URLs back into images for rasterization.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeSVG  = "image/svg+xml"

	// MaxUploadBytes bounds a single uploaded image.
	MaxUploadBytes = 5 << 20
	// MaxEdge is the longest edge a raster upload is kept at.
	MaxEdge = 1600
	// svgRasterEdge is the longest edge an SVG is rasterized to.
	svgRasterEdge = 1024
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrEmpty           = errors.New("empty image")
	ErrMalformedURL    = errors.New("malformed data url")
)

// Sniff reports the mime type of an accepted image, or ErrUnsupportedType.
func Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	switch ct := http.DetectContentType(data); {
	case ct == MimePNG:
		return MimePNG, nil
	case ct == MimeJPEG:
		return MimeJPEG, nil
	case strings.HasPrefix(ct, "text/xml"), strings.HasPrefix(ct, "text/plain"), strings.HasPrefix(ct, "image/svg"):
		head := data
		if len(head) > 1024 {
			head = head[:1024]
		}
		if bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
			return MimeSVG, nil
		}
	}
	return "", ErrUnsupportedType
}

// FromUpload reads an uploaded file and returns its data URL. Raster images
// whose longest edge exceeds MaxEdge are downscaled first; SVGs are embedded
// verbatim after a parse check.
func FromUpload(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", ErrTooLarge
	}
	mime, err := Sniff(data)
	if err != nil {
		return "", err
	}
	switch mime {
	case MimeSVG:
		if _, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode); err != nil {
			return "", fmt.Errorf("parse svg: %w", err)
		}
	default:
		data, err = shrink(data, mime)
		if err != nil {
			return "", err
		}
	}
	return Encode(mime, data), nil
}

func shrink(data []byte, mime string) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= MaxEdge && cfg.Height <= MaxEdge {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = imaging.Fit(img, MaxEdge, MaxEdge, imaging.Lanczos)
	var buf bytes.Buffer
	if mime == MimeJPEG {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode builds a base64 data URL.
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Parse splits a base64 data URL into its mime type and payload.
func Parse(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, ErrMalformedURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrMalformedURL
	}
	mime, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformedURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	return mime, data, nil
}

// Decode turns a data URL into an image. SVGs are rasterized with their
// longest edge at svgRasterEdge pixels.
func Decode(ref string) (image.Image, error) {
	mime, data, err := Parse(ref)
	if err != nil {
		return nil, err
	}
	if mime == MimeSVG {
		return rasterizeSVG(data, svgRasterEdge)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mime, err)
	}
	return img, nil
}

func rasterizeSVG(data []byte, edge int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = 1, 1
	}
	w, h := edge, edge
	if vw > vh {
		h = int(float64(edge) * vh / vw)
	} else {
		w = int(float64(edge) * vw / vh)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}
