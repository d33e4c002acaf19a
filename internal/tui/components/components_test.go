package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(10, 3)
	if len(widths) != 3 || widths[0] != 4 || widths[1] != 3 || widths[2] != 3 {
		t.Fatalf("LayoutRow(10, 3) = %v, want [4 3 3]", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowPadsShortCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI background fill", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Final Users", Value: "1,234"},
		{Label: "Final Cash", Value: "$12,000", Note: "+$500,000 raised"},
		{Label: "LTV:CAC", Value: "3.2x", Tone: theme.Active.Good},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabBar(t *testing.T) {
	bar := RenderTabBar(0, 80)
	if lipgloss.Width(bar) != 80 {
		t.Errorf("tab bar width = %d, want 80", lipgloss.Width(bar))
	}
	for _, tab := range Tabs {
		if got := TabVisualWidth(tab, false); got != len(tab.Name)+2 {
			t.Errorf("TabVisualWidth(%s) = %d, want %d", tab.Name, got, len(tab.Name)+2)
		}
	}
	if TabIdxByKey('h') != 2 {
		t.Errorf("TabIdxByKey('h') = %d, want 2", TabIdxByKey('h'))
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should return -1")
	}
}

func TestBarChart_NegativeValues(t *testing.T) {
	out := BarChart(Series{
		Values:       []float64{50000, 20000, -10000, -40000},
		Labels:       []string{"M1", "M2", "F1", "F2"},
		ForecastFrom: 2,
		Color:        theme.Active.Cash,
	}, 40, 8)

	lines := strings.Split(out, "\n")
	// 8 rows of bars, the zero axis and the x-axis labels.
	if len(lines) != 10 {
		t.Fatalf("chart lines = %d, want 10:\n%s", len(lines), out)
	}
	plain := stripANSI(out)
	if !strings.Contains(plain, "-40k") {
		t.Errorf("chart missing the negative extreme label:\n%s", plain)
	}
	if !strings.Contains(plain, "┼") {
		t.Errorf("chart missing zero axis:\n%s", plain)
	}
	if !strings.HasSuffix(strings.TrimRight(plain, " "), "F2") {
		t.Errorf("last label not shown:\n%s", plain)
	}
}

func TestBarChart_NarrowFallsBackToSparkline(t *testing.T) {
	out := BarChart(Series{Values: []float64{1, 2, 3}}, 10, 8)
	if strings.Contains(out, "\n") {
		t.Fatalf("narrow chart should be a single sparkline, got %q", out)
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		hi, lo   float64
		pos, neg int
	}{
		{100, 0, 8, 0},
		{100, -100, 4, 4},
		{1, -1000, 1, 7},
		{0, -50, 0, 8},
	}
	for _, tt := range tests {
		pos, neg := splitRows(8, tt.hi, tt.lo)
		if pos != tt.pos || neg != tt.neg {
			t.Errorf("splitRows(8, %v, %v) = %d, %d, want %d, %d", tt.hi, tt.lo, pos, neg, tt.pos, tt.neg)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		1500:    "1.5k",
		2000:    "2k",
		-40000:  "-40k",
		2500000: "2.5M",
		0.25:    "0.25",
	}
	for in, want := range tests {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
