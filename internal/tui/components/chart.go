package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/runway/internal/tui/theme"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series min and max.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var buf strings.Builder
	for _, v := range values {
		idx := len(eighths) - 1
		if span > 0 {
			idx = 1 + int((v-lo)/span*float64(len(eighths)-2))
		}
		buf.WriteRune(eighths[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Series is the input of BarChart.
type Series struct {
	Values []float64
	Labels []string
	// ForecastFrom is the index of the first forecast value; bars from there on
	// use the forecast color. A value >= len(Values) marks nothing.
	ForecastFrom int
	Color        lipgloss.Color
}

// BarChart renders a vertical bar chart. Negative values hang below a zero
// axis, so cash curves that dip below zero stay readable.
func BarChart(s Series, width, height int) string {
	values, labels := s.Values, s.Labels
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, s.Color)
	}

	t := theme.Active

	hi, lo := 0.0, 0.0
	for _, v := range values {
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	if hi == lo {
		hi = 1
	}

	posRows, negRows := splitRows(height, hi, lo)

	yLabelW := max(len(formatChartLabel(hi)), len(formatChartLabel(lo))) + 1
	if yLabelW < 4 {
		yLabelW = 4
	}
	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	n := len(values)
	forecast := make([]bool, n)
	for i := range forecast {
		forecast[i] = i >= s.ForecastFrom
	}

	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		// Too many bars: sample evenly, keeping the first and last.
		maxN := max(2, (chartW+1)/3)
		sampled := make([]float64, maxN)
		sampledForecast := make([]bool, maxN)
		var sampledLabels []string
		if len(labels) == n {
			sampledLabels = make([]string, maxN)
		}
		for i := range sampled {
			src := i * (n - 1) / (maxN - 1)
			sampled[i] = values[src]
			sampledForecast[i] = forecast[src]
			if sampledLabels != nil {
				sampledLabels[i] = labels[src]
			}
		}
		values, labels, forecast = sampled, sampledLabels, sampledForecast
		n = maxN
		barW = 2
	}
	if barW > 6 {
		barW = 6
	}
	axisLen := n*barW + max(0, n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	histStyle := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface)
	fcStyle := lipgloss.NewStyle().Foreground(t.Forecast).Background(t.Surface)

	writeRow := func(b *strings.Builder, label string, cell func(v float64) rune) {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			style := histStyle
			if forecast[i] {
				style = fcStyle
			}
			b.WriteString(style.Render(strings.Repeat(string(cell(v)), barW)))
		}
		b.WriteString("\n")
	}

	var b strings.Builder

	step := hi / float64(max(posRows, 1))
	for row := posRows; row >= 1; row-- {
		top := step * float64(row)
		bottom := step * float64(row-1)
		label := ""
		if row == posRows {
			label = formatChartLabel(hi)
		}
		writeRow(&b, label, func(v float64) rune {
			switch {
			case v >= top:
				return '█'
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				return eighths[min(max(idx, 1), 8)]
			default:
				return ' '
			}
		})
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("┼"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if negRows > 0 {
		negStep := -lo / float64(negRows)
		for row := 1; row <= negRows; row++ {
			top := -negStep * float64(row-1)
			bottom := -negStep * float64(row)
			label := ""
			if row == negRows {
				label = formatChartLabel(lo)
			}
			b.WriteString("\n")
			line := strings.Builder{}
			writeRow(&line, label, func(v float64) rune {
				switch {
				case v <= bottom:
					return '█'
				case v < top:
					if (top-v)/(top-bottom) >= 0.5 {
						return '█'
					}
					return '▀'
				default:
					return ' '
				}
			})
			b.WriteString(strings.TrimSuffix(line.String(), "\n"))
		}
	}

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW, gap, axisLen)))
	}

	return b.String()
}

// splitRows divides height between the parts above and below zero in
// proportion to their ranges; each non-empty side gets at least one row.
func splitRows(height int, hi, lo float64) (pos, neg int) {
	if lo >= 0 {
		return height, 0
	}
	pos = int(math.Round(float64(height) * hi / (hi - lo)))
	if hi > 0 && pos == 0 {
		pos = 1
	}
	if pos >= height {
		pos = height - 1
	}
	return pos, height - pos
}

// xAxisLabels places labels under their bars, skipping any that would overlap.
// The last label is always shown when it fits.
func xAxisLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []rune(strings.Repeat(" ", axisLen))

	lastEnd := -1
	place := func(i int) bool {
		lbl := []rune(labels[i])
		pos := i * (barW + gap)
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos <= lastEnd || pos < 0 {
			return false
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
		return true
	}

	step := max(1, (n*6)/(axisLen+1))
	for i := 0; i < n-1; i += step {
		place(i)
	}
	if n > 0 {
		// Make room for the last label by clearing a label it would collide with.
		lbl := []rune(labels[n-1])
		pos := min((n-1)*(barW+gap), axisLen-len(lbl))
		if pos > 0 && pos <= lastEnd {
			for j := pos - 1; j >= 0 && buf[j] != ' '; j-- {
				buf[j] = ' '
			}
			for j := pos; j < len(buf); j++ {
				buf[j] = ' '
			}
			lastEnd = pos - 1
		}
		place(n - 1)
	}

	return strings.TrimRight(string(buf), " ")
}

func formatChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e6:
		return sign + trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return sign + trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1 || v == 0:
		return sign + fmt.Sprintf("%.0f", v)
	default:
		return sign + fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
