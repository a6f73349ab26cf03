package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values. The baseline is zero, or
// the smallest value when some are negative.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := valueRange(values)
	span := hi - lo

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// LineChart plots values left to right with a labelled Y axis and one
// X label per point where space allows. height is the plot height in rows.
func LineChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 20 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	lo, hi := valueRange(values)
	step := chartTickStep(hi - lo)
	floor := math.Floor(lo/step) * step
	ceiling := math.Ceil(hi/step) * step
	if ceiling <= floor {
		ceiling = floor + step
	}
	span := ceiling - floor

	yLabelW := max(len(formatChartLabel(floor)), len(formatChartLabel(ceiling))) + 1
	plotW := width - yLabelW - 1
	if plotW < 5 {
		plotW = 5
	}

	n := len(values)
	cols := make([]int, n)
	rows := make([]int, n)
	for i, v := range values {
		if n == 1 {
			cols[i] = plotW / 2
		} else {
			cols[i] = i * (plotW - 1) / (n - 1)
		}
		rows[i] = int(math.Round((v - floor) / span * float64(height-1)))
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", plotW))
	}
	mark := func(r, c int, ch rune) {
		if r >= 0 && r < height && c >= 0 && c < plotW {
			grid[r][c] = ch
		}
	}

	// Segments first so data points draw on top
	for i := 0; i+1 < n; i++ {
		c0, c1 := cols[i], cols[i+1]
		prev := rows[i]
		for c := c0 + 1; c <= c1; c++ {
			frac := float64(c-c0) / float64(c1-c0)
			r := int(math.Round(float64(rows[i]) + frac*float64(rows[i+1]-rows[i])))
			from, to := min(prev, r), max(prev, r)
			for rr := from; rr <= to; rr++ {
				mark(rr, c, '·')
			}
			prev = r
		}
	}
	for i := range values {
		mark(rows[i], cols[i], '●')
	}

	// Y tick labels at the floor, the ceiling and every step between when
	// the plot is tall enough
	tickLabels := make(map[int]string)
	ticks := int(math.Round(span / step))
	for k := 0; k <= ticks; k++ {
		v := floor + float64(k)*step
		r := int(math.Round((v - floor) / span * float64(height-1)))
		if _, taken := tickLabels[r]; !taken {
			tickLabels[r] = formatChartLabel(v)
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	lineStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	for r := height - 1; r >= 0; r-- {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[r])))
		b.WriteString(axisStyle.Render("│"))
		b.WriteString(lineStyle.Render(string(grid[r])))
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW)))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", plotW)))

	if len(labels) == n {
		buf := []rune(strings.Repeat(" ", plotW))
		lastEnd := -1
		for i, lbl := range labels {
			lr := []rune(lbl)
			start := cols[i] - len(lr)/2
			if start < 0 {
				start = 0
			}
			if start+len(lr) > plotW {
				start = plotW - len(lr)
			}
			if start <= lastEnd || start < 0 {
				continue
			}
			copy(buf[start:], lr)
			lastEnd = start + len(lr)
		}
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	}

	return b.String()
}

// BarItem is one row of a horizontal bar chart.
type BarItem struct {
	Label string
	Value float64
}

// HBarChart renders one bar per item, scaled to the largest absolute value.
// Negative values draw in the theme's red.
func HBarChart(items []BarItem, color lipgloss.Color, width int) string {
	if len(items) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	valueW := 0
	maxAbs := 0.0
	for _, it := range items {
		labelW = max(labelW, lipgloss.Width(it.Label))
		valueW = max(valueW, len(cli.FormatRevenue(it.Value)))
		maxAbs = math.Max(maxAbs, math.Abs(it.Value))
	}
	if labelW > width/3 {
		labelW = width / 3
	}
	barMax := width - labelW - valueW - 2
	if barMax < 1 {
		barMax = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	posStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	negStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(items))
	for _, it := range items {
		barLen := 0
		if maxAbs > 0 {
			barLen = int(math.Abs(it.Value) / maxAbs * float64(barMax))
		}
		if barLen == 0 && it.Value != 0 {
			barLen = 1
		}
		style := posStyle
		if it.Value < 0 {
			style = negStyle
		}

		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, Truncate(it.Label, labelW)))+
				space.Render(" ")+
				style.Render(strings.Repeat("█", barLen))+
				space.Render(strings.Repeat(" ", barMax-barLen+1))+
				valueStyle.Render(fmt.Sprintf("%*s", valueW, cli.FormatRevenue(it.Value))))
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// valueRange returns the plotted range, which always includes zero and is
// never empty.
func valueRange(values []float64) (lo, hi float64) {
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e9:
		return trimLabel(v/1e9) + "B"
	case v >= 1e6:
		return trimLabel(v/1e6) + "M"
	case v >= 1e3:
		return trimLabel(v/1e3) + "k"
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimLabel(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
