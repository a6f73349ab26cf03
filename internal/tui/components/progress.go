package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a visually appealing progress bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	// Color gradient based on progress
	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ShareItem is one slice of a share breakdown.
type ShareItem struct {
	Label   string
	Revenue float64
	Share   float64 // fraction of the total, may be negative
}

// ShareBars renders each item as a labelled bar filled to its share of the
// total, the terminal stand-in for a pie chart. Items cycle through the theme
// palette; negative shares draw as empty bars.
func ShareBars(items []ShareItem, width int) string {
	if len(items) == 0 {
		return ""
	}
	t := theme.Active
	palette := t.Palette()

	labelW := 0
	for _, it := range items {
		labelW = max(labelW, lipgloss.Width(it.Label))
	}
	if labelW > width/3 {
		labelW = width / 3
	}
	const pctW = 7
	valueW := 0
	for _, it := range items {
		valueW = max(valueW, len(cli.FormatRevenue(it.Revenue)))
	}
	barW := width - labelW - pctW - valueW - 3
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(items))
	for i, it := range items {
		color := palette[i%len(palette)]
		bar := progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithWidth(barW),
			progress.WithoutPercentage(),
		)
		bar.EmptyColor = string(t.SurfaceBright)

		share := it.Share
		if share < 0 {
			share = 0
		}
		if share > 1 {
			share = 1
		}

		pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, Truncate(it.Label, labelW)))+
				spaceStyle.Render(" ")+
				bar.ViewAs(share)+
				spaceStyle.Render(" ")+
				pctStyle.Render(fmt.Sprintf("%*s", pctW-1, cli.FormatPercent(it.Share)))+
				spaceStyle.Render(" ")+
				mutedStyle.Render(fmt.Sprintf("%*s", valueW, cli.FormatRevenue(it.Revenue))))
	}
	return strings.Join(lines, "\n")
}
