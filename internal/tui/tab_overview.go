package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/tui/components"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const aboutText = "This dashboard explores revenue collected from natural resources " +
	"produced on federal and Native American lands. Use it to follow revenue " +
	"over time and to break it down by fiscal year, land class, revenue type, " +
	"commodity, state and county."

var (
	keyFeatures = []struct{ name, desc string }{
		{"Interactive filtering", "narrow every chart with the sidebar controls"},
		{"Visualizations", "trends, land class shares, state and commodity rankings, county map"},
		{"Data exploration", "browse the filtered rows in the raw table"},
		{"Two views", "rows with filled-in unknowns, and only fully known rows"},
	}
	objectives = []string{
		"Analyze revenue trends over time",
		"Identify revenue contributions by land class, commodity and state",
		"Compare offshore and onshore activity",
	}
	technologies = []struct{ name, desc string }{
		{"Go", "single static binary"},
		{"Bubble Tea + Lip Gloss", "terminal dashboard"},
		{"gota", "CSV ingestion"},
		{"SQLite", "parsed table and boundary cache"},
		{"go-chart + excelize", "PNG and XLSX export"},
	}
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active

	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	bullets := func(w int, items []struct{ name, desc string }) string {
		lines := make([]string, 0, len(items))
		for _, it := range items {
			line := accentStyle.Render("• "+it.name) + mutedStyle.Render(": "+it.desc)
			lines = append(lines, lipgloss.NewStyle().Width(w).Background(t.Surface).Render(line))
		}
		return strings.Join(lines, "\n")
	}

	var b strings.Builder

	// About
	aboutW := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard("About This Project",
		textStyle.Width(aboutW).Render(aboutText), cw))
	b.WriteString("\n")

	// Features and objectives side by side
	halves := components.LayoutRow(cw, 2)
	var obj []string
	for _, o := range objectives {
		obj = append(obj, textStyle.Width(components.CardInnerWidth(halves[1])).Render("• "+o))
	}
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Key Features", bullets(components.CardInnerWidth(halves[0]), keyFeatures), halves[0]),
		components.ContentCard("Objectives", strings.Join(obj, "\n"), halves[1]),
	}))
	b.WriteString("\n")

	// Technologies beside dataset facts
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Technologies", bullets(components.CardInnerWidth(halves[0]), technologies), halves[0]),
		components.ContentCard("Dataset", a.datasetFacts(components.CardInnerWidth(halves[1])), halves[1]),
	}))

	return b.String()
}

// datasetFacts lists what was loaded and how.
func (a App) datasetFacts(w int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if a.result == nil {
		return components.EmptyBody()
	}
	snap := a.snap
	bounds := snap.Bounds
	filled := a.result.Filled

	source := "parsed"
	if a.result.FromCache {
		source = "cache"
	}

	facts := []struct{ label, value string }{
		{"File", components.Truncate(filepath.Base(snap.Source), w-16)},
		{"Rows", cli.FormatNumber(int64(len(snap.All)))},
		{"Fully known", cli.FormatNumber(int64(len(snap.Known)))},
		{"Filled in", fmt.Sprintf("%d state · %d county · %d product", filled.State, filled.County, filled.Product)},
		{"Fiscal years", cli.FormatYearSpan(bounds.MinYear, bounds.MaxYear)},
		{"Revenue range", cli.FormatRevenue(bounds.MinRevenue) + " to " + cli.FormatRevenue(bounds.MaxRevenue)},
		{"Categories", fmt.Sprintf("%d land · %d types · %d commodities",
			len(bounds.LandClasses), len(bounds.RevenueTypes), len(bounds.Commodities))},
		{"Loaded", fmt.Sprintf("%s in %.1fs", source, a.loadTime.Seconds())},
	}

	lines := make([]string, 0, len(facts)+2)
	for _, f := range facts {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-14s", f.label))+valueStyle.Render(f.value))
	}
	lines = append(lines, "", labelStyle.Render("Press ? for keys, tab for filters"))
	return strings.Join(lines, "\n")
}
