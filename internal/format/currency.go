// Package format renders amounts the way Indonesian financial statements
// print them: "." as the thousands separator and negative changes in
// parentheses.
package format

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"apbdes/internal/core"
)

// message.Printer is not documented as safe for concurrent use.
var (
	printerMu sync.Mutex
	printer   = message.NewPrinter(language.Indonesian)
)

// Rupiah formats a with id-ID grouping, e.g. 1615553800 -> "1.615.553.800".
// Negative values keep a leading minus.
func Rupiah(a core.Amount) string {
	printerMu.Lock()
	defer printerMu.Unlock()
	return printer.Sprintf("%d", a.Int64())
}

// Change formats a change value: negative values are parenthesized instead
// of carrying a minus sign, e.g. -1600000 -> "(1.600.000)".
func Change(a core.Amount) string {
	if a < 0 {
		return "(" + Rupiah(a.Abs()) + ")"
	}
	return Rupiah(a)
}

// Tone classifies a value for coloring.
type Tone string

const (
	ToneZero     Tone = "zero"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// ToneOf returns the tone of a.
func ToneOf(a core.Amount) Tone {
	switch {
	case a < 0:
		return ToneNegative
	case a > 0:
		return TonePositive
	}
	return ToneZero
}
