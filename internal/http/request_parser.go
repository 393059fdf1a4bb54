// This file implements utilities for parsing and validating HTTP request data.
// It reduces code duplication by providing reusable functions for row
// addressing, export settings and input sanitization.

package http

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"apbdes/internal/core"
	"apbdes/internal/export"
)

// formValues is satisfied by url.Values and *RequestBodyParser.
type formValues interface {
	Get(key string) string
}

// ParseRowTarget reads the group and, for expenditure, the section index.
func ParseRowTarget(v formValues) (core.RowTarget, error) {
	g, err := core.ParseGroup(v.Get("group"))
	if err != nil {
		return core.RowTarget{}, err
	}
	t := core.RowTarget{Group: g}
	if g == core.GroupExpenditure {
		raw := strings.TrimSpace(v.Get("section"))
		n, err := strconv.Atoi(raw)
		if err != nil {
			return core.RowTarget{}, fmt.Errorf("%w: %q", core.ErrUnknownSection, raw)
		}
		t.Section = n
	}
	return t, nil
}

// ParseRowIndex reads the zero-based row index.
func ParseRowIndex(v formValues) (int, error) {
	raw := strings.TrimSpace(v.Get("index"))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", core.ErrRowOutOfRange, raw)
	}
	return n, nil
}

// ParseExportConfig reads the optional download settings: scale (pixel
// ratio), bg (#rrggbb background) and cached=1 to reuse decoded images.
// Invalid values keep the defaults.
func ParseExportConfig(query url.Values) export.Config {
	cfg := export.DefaultConfig()
	if v := strings.TrimSpace(query.Get("scale")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.PixelRatio = f
		}
	}
	if c, ok := parseHexColor(query.Get("bg")); ok {
		cfg.Background = c
	}
	if query.Get("cached") == "1" {
		cfg.CacheBust = false
	}
	return cfg
}

func parseHexColor(s string) (color.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(r.Body)
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
