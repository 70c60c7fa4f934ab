package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"50.00", "50.00", true},
		{"0.01", "0.01", true},
		{"0.00", "0.00", true},
		{"1234.56", "1234.56", true},
		{"50", "", false},
		{"50.0", "", false},
		{"50.000", "", false},
		{"50,00", "", false},
		{"-50.00", "", false},
		{"+50.00", "", false},
		{"$50.00", "", false},
		{"4.5.6", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			if want := decimal.RequireFromString(tc.out); !got.Equal(want) {
				t.Fatalf("%q expected %s, got %s", tc.in, want, got)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"100", "$100.00"},
		{"100.5", "$100.50"},
		{"99.999", "$100.00"}, // half away from zero on the third decimal
		{"12.344", "$12.34"},
		{"12.345", "$12.35"},
		{"0", "$0.00"},
	}
	for _, tc := range cases {
		if got := FormatUSD(decimal.RequireFromString(tc.in)); got != tc.out {
			t.Fatalf("%s expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, token := range []string{"50.00", "0.01", "99.99", "1234.56"} {
		amount, err := ParseAmount(token)
		if err != nil {
			t.Fatalf("%q expected ok, got %v", token, err)
		}
		if got := FormatUSD(amount); got != "$"+token {
			t.Fatalf("%q round-tripped to %q", token, got)
		}
	}
}

func TestAddRounded(t *testing.T) {
	sum := decimal.Zero
	for _, s := range []string{"10.10", "20.20", "0.01"} {
		sum = AddRounded(sum, decimal.RequireFromString(s))
	}
	if want := decimal.RequireFromString("30.31"); !sum.Equal(want) {
		t.Fatalf("expected %s, got %s", want, sum)
	}
	if got := AddRounded(decimal.Zero, decimal.RequireFromString("1.005")); !got.Equal(decimal.RequireFromString("1.01")) {
		t.Fatalf("expected 1.01, got %s", got)
	}
}
