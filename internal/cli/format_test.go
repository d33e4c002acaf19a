package cli

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		1234567:   "1,234,567",
		-45000:    "-45,000",
		100000000: "100,000,000",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(-6721); got != "-$6,721" {
		t.Errorf("FormatCurrency(-6721) = %q", got)
	}
	if got := FormatMoney(43278.846); got != "$43,279" {
		t.Errorf("FormatMoney(43278.846) = %q", got)
	}
	if got := FormatCompactCurrency(2_500_000); got != "$2.5M" {
		t.Errorf("FormatCompactCurrency(2500000) = %q", got)
	}
	if got := FormatCompact(1234); got != "1.2K" {
		t.Errorf("FormatCompact(1234) = %q", got)
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := map[string]string{
		"1500.25":  "$1,500.25",
		"99.5":     "$99.50",
		"0.005":    "$0.01",
		"-1234.1":  "-$1,234.10",
		"12000000": "$12,000,000.00",
	}
	for in, want := range cases {
		if got := FormatDecimal(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatDecimal(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(model.Finite(13.333), "x"); got != "13.33x" {
		t.Errorf("FormatRatio(finite) = %q", got)
	}
	if got := FormatRatio(model.Unbounded(1), "x"); got != "∞" {
		t.Errorf("FormatRatio(unbounded) = %q", got)
	}
	if got := FormatRatio(model.Undefined(), ""); got != "n/a" {
		t.Errorf("FormatRatio(undefined) = %q", got)
	}
	if got := FormatRunway(model.Finite(6.4)); got != "6.4 mo" {
		t.Errorf("FormatRunway(6.4) = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(1500, 1000); got != "+$500" {
		t.Errorf("FormatDelta(+) = %q", got)
	}
	if got := FormatDelta(1000, 1500); got != "-$500" {
		t.Errorf("FormatDelta(-) = %q", got)
	}
}
