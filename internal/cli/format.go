// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/runway/internal/model"
)

// FormatCompact formats a count with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCompact(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCurrency formats whole dollars with separators, e.g. -1234 -> "-$1,234".
func FormatCurrency(n int64) string {
	if n < 0 {
		return "-$" + FormatNumber(-n)
	}
	return "$" + FormatNumber(n)
}

// FormatMoney formats a float dollar amount rounded to whole dollars.
func FormatMoney(v float64) string {
	return FormatCurrency(int64(model.RoundHalfUp(v)))
}

// FormatCompactCurrency formats dollars with suffixes, e.g. 2500000 -> "$2.5M".
func FormatCompactCurrency(n int64) string {
	if n < 0 {
		return "-$" + FormatCompact(-n)
	}
	return "$" + FormatCompact(n)
}

// FormatDecimal formats an exact dollar amount with cents.
func FormatDecimal(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	s := "$" + FormatNumber(whole.IntPart()) + fmt.Sprintf(".%02d", cents)
	if neg {
		return "-" + s
	}
	return s
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatRatio formats a ratio with two decimals and an optional suffix.
func FormatRatio(r model.Ratio, suffix string) string {
	if !r.IsFinite() {
		return r.String()
	}
	return fmt.Sprintf("%.2f%s", r.Value, suffix)
}

// FormatRunway formats runway months, e.g. "6.4 mo" or "∞".
func FormatRunway(r model.Ratio) string {
	if !r.IsFinite() {
		return r.String()
	}
	return fmt.Sprintf("%.1f mo", r.Value)
}

// FormatDelta formats a signed dollar change.
func FormatDelta(current, previous int64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCurrency(delta)
	}
	return FormatCurrency(delta)
}

// FormatMonthCount pluralizes a number of months.
func FormatMonthCount(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}
