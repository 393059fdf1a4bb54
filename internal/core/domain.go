package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorAmber  Color = "amber"
	ColorRose   Color = "rose"
	ColorIndigo Color = "indigo"
	ColorSlate  Color = "slate"
)

type (
	// Color tags a section card. Unknown values render as slate.
	Color string

	LineItem struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Initial     Amount `json:"initial"` // semula
		Final       Amount `json:"final"`   // menjadi
	}

	// Section is one expenditure bidang.
	Section struct {
		ID    string     `json:"id"`
		Title string     `json:"title"`
		Color Color      `json:"color"`
		Rows  []LineItem `json:"rows"`
	}

	// Financing holds penerimaan (In) and pengeluaran (Out) pembiayaan rows.
	Financing struct {
		In  []LineItem `json:"penerimaanRows"`
		Out []LineItem `json:"pengeluaranRows"`
	}

	// Header carries banner metadata. Image slots are empty or a data: URL.
	Header struct {
		VillageName       string `json:"villageName"`
		DistrictName      string `json:"districtName"`
		RegencyName       string `json:"regencyName"`
		HeadOfVillageName string `json:"headOfVillageName"`
		Year              int    `json:"year"`
		LogoRegency       string `json:"logoRegency"`
		LogoMinistry      string `json:"logoMinistry"`
		Headshot          string `json:"headshot"`
		Background        string `json:"backgroundImage"`
	}

	// Document is the whole budget banner. It is treated as an immutable
	// value: reducers in edit.go return a new Document and never write into
	// slices reachable from their input.
	Document struct {
		Header      Header     `json:"header"`
		Revenue     []LineItem `json:"pendapatan"`
		Expenditure []Section  `json:"belanja"`
		Financing   Financing  `json:"pembiayaan"`
	}
)

var (
	ErrDuplicateID    = errors.New("duplicate id")
	ErrUnknownSection = errors.New("unknown expenditure section")
	ErrRowOutOfRange  = errors.New("row index out of range")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownGroup   = errors.New("unknown row group")
	ErrUnknownSlot    = errors.New("unknown image slot")
	ErrInvalidYear    = errors.New("invalid year")
)

// Valid reports whether c is one of the known card colors.
func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorGreen, ColorPurple, ColorAmber, ColorRose, ColorIndigo, ColorSlate:
		return true
	}
	return false
}

// OrDefault returns c, or slate when c is not a known color.
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return ColorSlate
}

// Validate checks id uniqueness within every row list and among sections.
func (d Document) Validate() error {
	if err := uniqueRowIDs("pendapatan", d.Revenue); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(d.Expenditure))
	for _, s := range d.Expenditure {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("belanja section %q: empty id", s.Title)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("belanja section %q: %w", s.ID, ErrDuplicateID)
		}
		seen[s.ID] = struct{}{}
		if err := uniqueRowIDs("belanja "+s.ID, s.Rows); err != nil {
			return err
		}
	}
	if err := uniqueRowIDs("penerimaan pembiayaan", d.Financing.In); err != nil {
		return err
	}
	return uniqueRowIDs("pengeluaran pembiayaan", d.Financing.Out)
}

func uniqueRowIDs(list string, rows []LineItem) error {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%s row %q: %w", list, r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// ExportFilename returns the deterministic download name for an export of
// the document, e.g. "apbdes-sukamaju-2025.png".
func ExportFilename(prefix string, h Header, ext string) string {
	return fmt.Sprintf("%s-%s-%d.%s", prefix, strings.ToLower(h.VillageName), h.Year, ext)
}
