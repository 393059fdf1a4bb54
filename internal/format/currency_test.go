package format

import (
	"testing"

	"apbdes/internal/core"
)

func TestRupiah(t *testing.T) {
	cases := []struct {
		in   core.Amount
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1615553800, "1.615.553.800"},
		{-945403478, "-945.403.478"},
		{1_000_000_000_000, "1.000.000.000.000"},
	}
	for _, tc := range cases {
		if got := Rupiah(tc.in); got != tc.want {
			t.Fatalf("Rupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChange(t *testing.T) {
	if got := Change(-1600000); got != "(1.600.000)" {
		t.Fatalf("Change(-1600000) = %q", got)
	}
	if got := Change(37851800); got != "37.851.800" {
		t.Fatalf("Change(37851800) = %q", got)
	}
	if got := Change(0); got != "0" {
		t.Fatalf("Change(0) = %q", got)
	}
}

func TestToneOf(t *testing.T) {
	if ToneOf(-1) != ToneNegative || ToneOf(1) != TonePositive || ToneOf(0) != ToneZero {
		t.Fatalf("tones wrong")
	}
}
