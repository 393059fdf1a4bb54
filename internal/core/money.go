// Package core holds the budget document model, the pure reducers that edit
// it and the aggregator that derives the banner totals.
//
// Amounts are whole rupiah held in an int64, so sums are exact well past the
// trillions and no binary floating point is involved.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Amount is a signed amount of whole rupiah.
type Amount int64

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount coerces form input into an Amount.
//
// It accepts id-ID grouping ("1.234.567"), plain digits ("1234567"), an
// optional sign and an optional fractional part, written either with a comma
// ("1.234,50") or, as browsers submit number inputs, with a single dot
// followed by one or two digits ("1234.5"). Fractions are rounded half-up
// (away from zero) to whole rupiah. Empty input is zero.
//
// Examples:
//
//	ParseAmount("40.325.000") -> 40325000, nil
//	ParseAmount("-1600000")   -> -1600000, nil
//	ParseAmount("12,5")       -> 13, nil
//	ParseAmount("1500.75")    -> 1501, nil
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart := splitDecimal(s)
	intPart = strings.NewReplacer(".", "", " ", "").Replace(intPart)
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if fracPart != "" && fracPart[0] >= '5' {
		if v == 1<<63-1 {
			return 0, ErrInvalidAmount
		}
		v++
	}
	if neg {
		v = -v
	}
	return Amount(v), nil
}

// splitDecimal separates the integer digits from a fractional part.
func splitDecimal(s string) (string, string) {
	if i := strings.LastIndexByte(s, ','); i >= 0 {
		return s[:i], s[i+1:]
	}
	if strings.Count(s, ".") == 1 {
		i := strings.IndexByte(s, '.')
		if n := len(s) - i - 1; n >= 1 && n <= 2 {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// Abs returns the magnitude of a.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Int64 returns the raw rupiah count.
func (a Amount) Int64() int64 {
	return int64(a)
}
