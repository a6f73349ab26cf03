package components

import (
	"strings"

	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // byte offset of the shortcut letter in Name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Project Overview", Key: 'o', KeyPos: 8},
	{Name: "With Unknowns", Key: 'w', KeyPos: 0},
	{Name: "Without Unknowns", Key: 'u', KeyPos: 8},
}

// renderTab renders one tab label. The active tab sits on a raised surface;
// inactive tabs underline their shortcut letter.
func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Underline(true)

	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		before := tab.Name[:tab.KeyPos]
		key := string(tab.Name[tab.KeyPos])
		after := tab.Name[tab.KeyPos+1:]
		return base.Render(" "+before) + keyStyle.Render(key) + base.Render(after+" ")
	}
	return base.Render(" "+tab.Name+" ") + keyStyle.Render(string(tab.Key))
}

// TabVisualWidth returns the rendered width of a tab, for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the title line and the tab row for the given active index.
func RenderTabBar(title string, activeIdx int, width int) string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Bold(true).
		Width(width)
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(width)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		parts = append(parts, renderTab(tab, i == activeIdx))
	}

	return titleStyle.Render(" ◆ "+title) + "\n" + rowStyle.Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
