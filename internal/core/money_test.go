package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out Amount
		ok  bool
	}{
		{"", 0, true},
		{"0", 0, true},
		{"40325000", 40325000, true},
		{"40.325.000", 40325000, true},
		{"Rp 1.615.553.800", 1615553800, true},
		{"-1600000", -1600000, true},
		{"+15", 15, true},
		{"12,5", 13, true},
		{"12,49", 12, true},
		{"1.234,50", 1235, true},
		{"1500.75", 1501, true},
		{"1500.4", 1500, true},
		{"1.500", 1500, true},
		{"-2,5", -3, true},
		{" 7 ", 7, true},
		{"-", 0, false},
		{"abc", 0, false},
		{"12a", 0, false},
		{"1,2,3", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %d", tc.in, got)
		}
	}
}

func TestAmountAbs(t *testing.T) {
	if Amount(-5).Abs() != 5 || Amount(5).Abs() != 5 {
		t.Fatalf("Abs broken")
	}
}
