package components

import (
	"strings"

	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// data and map state on the right.
func RenderStatusBar(width int, dataInfo, mapInfo string, mapOK bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	mapStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if !mapOK {
		mapStyle = mapStyle.Foreground(t.Orange)
	}

	left := style.Render(" ") +
		keyStyle.Render("[?]") + style.Render("help  ") +
		keyStyle.Render("[tab]") + style.Render("filters  ") +
		keyStyle.Render("[q]") + style.Render("uit")

	right := ""
	if dataInfo != "" {
		right += style.Render(dataInfo)
	}
	if mapInfo != "" {
		if right != "" {
			right += style.Render("  │  ")
		}
		right += mapStyle.Render(mapInfo)
	}
	right += style.Render(" ")

	// Pad middle
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + style.Render(strings.Repeat(" ", padding)) + right
}
