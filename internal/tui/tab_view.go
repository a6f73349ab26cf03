package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"
	"github.com/theirongolddev/revdash/internal/tui/components"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	// maxTableRows caps the rows handed to the raw table.
	maxTableRows = 5000
	tableHeight  = 15
	topGroups    = 12
	topCounties  = 10
)

func (a App) renderViewTab(v pipeline.View, cw int) string {
	t := theme.Active
	p := a.vm.Panel(v)
	compact := cw < 100
	var b strings.Builder

	// Row 1: Metric cards
	s := p.Summary
	metrics := []components.Metric{
		{Label: "Total Revenue", Value: cli.FormatRevenue(s.TotalRevenue), Note: cli.FormatCurrency(s.TotalRevenue)},
		{Label: "Rows", Value: cli.FormatNumber(int64(s.Rows)), Note: "FY " + cli.FormatYearSpan(s.MinYear, s.MaxYear)},
		{Label: "States", Value: cli.FormatNumber(int64(s.States)), Note: cli.FormatNumber(int64(s.Counties)) + " counties"},
		{Label: "Commodities", Value: cli.FormatNumber(int64(s.Commodities))},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: Trend line
	trend := components.EmptyBody()
	if len(p.ByYear) > 0 {
		values := make([]float64, len(p.ByYear))
		labels := make([]string, len(p.ByYear))
		for i, y := range p.ByYear {
			values[i] = y.Revenue
			labels[i] = strconv.Itoa(y.Year)
		}
		trend = components.LineChart(values, labels, t.Blue, components.CardInnerWidth(cw), 10)
	}
	b.WriteString(components.ContentCard(p.ChartTitle("Revenue Trends Over Time"), trend, cw))
	b.WriteString("\n")

	// Row 3: Land class shares beside states
	if compact {
		b.WriteString(a.landClassCard(p, cw))
		b.WriteString("\n")
		b.WriteString(groupCard(p.ChartTitle("Revenue by State"), p.ByState, t.Green, cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			a.landClassCard(p, halves[0]),
			groupCard(p.ChartTitle("Revenue by State"), p.ByState, t.Green, halves[1]),
		}))
	}
	b.WriteString("\n")

	// Row 4: Commodities
	b.WriteString(groupCard(p.ChartTitle("Revenue by Commodity"), p.ByCommodity, t.Orange, cw))
	b.WriteString("\n")

	// Row 5: County map
	b.WriteString(a.countyCard(p, cw, compact))
	b.WriteString("\n")

	// Row 6: Raw table
	b.WriteString(a.tableCard(p, cw))

	return b.String()
}

// landClassCard renders the land class shares. Shares are taken over the
// positive totals only, like slices of a pie.
func (a App) landClassCard(p *pipeline.Panel, w int) string {
	title := p.ChartTitle("Revenue Breakdown by Land Class")
	items := pieShares(p.ByLandClass)
	if len(items) == 0 {
		return components.ContentCard(title, components.EmptyBody(), w)
	}
	return components.ContentCard(title, components.ShareBars(items, components.CardInnerWidth(w)), w)
}

func pieShares(groups []model.GroupTotal) []components.ShareItem {
	total := 0.0
	for _, g := range groups {
		if g.Revenue > 0 {
			total += g.Revenue
		}
	}
	if total == 0 {
		return nil
	}
	items := make([]components.ShareItem, 0, len(groups))
	for _, g := range groups {
		if g.Revenue <= 0 {
			continue
		}
		items = append(items, components.ShareItem{
			Label:   cli.Label(g.Key),
			Revenue: g.Revenue,
			Share:   g.Revenue / total,
		})
	}
	return items
}

// groupCard renders the largest groups as horizontal bars.
func groupCard(title string, groups []model.GroupTotal, color lipgloss.Color, w int) string {
	if len(groups) == 0 {
		return components.ContentCard(title, components.EmptyBody(), w)
	}
	shown := groups
	if len(shown) > topGroups {
		shown = shown[:topGroups]
	}
	items := make([]components.BarItem, len(shown))
	for i, g := range shown {
		items[i] = components.BarItem{Label: cli.Label(g.Key), Value: g.Revenue}
	}
	body := components.HBarChart(items, color, components.CardInnerWidth(w))
	if rest := len(groups) - len(shown); rest > 0 {
		body += "\n" + lipgloss.NewStyle().
			Foreground(theme.Active.TextDim).
			Background(theme.Active.Surface).
			Render(fmt.Sprintf("+ %d more", rest))
	}
	return components.ContentCard(title, body, w)
}

// countyCard draws the county map, or a ranked list while boundary data is
// loading or unavailable.
func (a App) countyCard(p *pipeline.Panel, w int, compact bool) string {
	t := theme.Active
	title := p.ChartTitle("Revenue Distribution by County (FIPS)")
	innerW := components.CardInnerWidth(w)

	if len(p.ByCounty) == 0 {
		return components.ContentCard(title, components.EmptyBody(), w)
	}

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	if a.atlas.Len() > 0 {
		points := make([]components.MapPoint, 0, len(p.ByCounty))
		codes := make([]string, 0, len(p.ByCounty))
		for _, ct := range p.ByCounty {
			c, ok := a.atlas.Lookup(ct.FIPS)
			if !ok {
				continue
			}
			points = append(points, components.MapPoint{Lon: c.Lon, Lat: c.Lat, Value: ct.Revenue})
			codes = append(codes, ct.FIPS)
		}

		if len(points) > 0 {
			minLon, minLat, maxLon, maxLat, _ := a.atlas.Extent(codes...)
			mapH := 16
			if compact {
				mapH = 12
			}
			lo, hi := components.PointRange(points)
			body := components.Choropleth(points, components.MapBounds{
				MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat,
			}, innerW, mapH)
			body += "\n" + components.ViridisLegend(lo, hi, innerW)
			body += "\n" + dimStyle.Render(fmt.Sprintf("%s of %s counties placed",
				cli.FormatNumber(int64(len(points))), cli.FormatNumber(int64(len(p.ByCounty)))))
			return components.ContentCard(title, body, w)
		}
	}

	var status string
	switch {
	case a.atlasLoading:
		status = dimStyle.Render(a.spinner.View() + " Loading county boundaries…")
	case !a.mapEnabled:
		status = dimStyle.Render("Map disabled in config")
	default:
		status = warnStyle.Render("Map unavailable")
		if a.atlasErr != nil {
			status += dimStyle.Render(": " + components.Truncate(a.atlasErr.Error(), innerW-20))
		}
	}

	shown := p.ByCounty
	if len(shown) > topCounties {
		shown = shown[:topCounties]
	}
	items := make([]components.BarItem, len(shown))
	for i, ct := range shown {
		items[i] = components.BarItem{Label: countyLabel(i+1, ct), Value: ct.Revenue}
	}
	body := status + "\n\n" + components.HBarChart(items, t.Magenta, innerW)
	return components.ContentCard(title, body, w)
}

func countyLabel(rank int, ct model.CountyTotal) string {
	name := ct.FIPS
	if ct.Name != "" {
		name = ct.Name + " (" + ct.FIPS + ")"
	}
	if ct.State != "" && ct.State != model.UnknownState {
		name += ", " + ct.State
	}
	return fmt.Sprintf("%2d. %s", rank, name)
}

func (a App) tableCard(p *pipeline.Panel, w int) string {
	title := p.ChartTitle("Filtered Data")
	if len(p.Rows) == 0 {
		return components.ContentCard(title, components.EmptyBody(), w)
	}

	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	note := fmt.Sprintf("row %s of %s · j/k to move",
		cli.FormatNumber(int64(a.table.Cursor()+1)), cli.FormatNumber(int64(len(p.Rows))))
	if len(p.Rows) > maxTableRows {
		note += fmt.Sprintf(" · first %s shown", cli.FormatNumber(maxTableRows))
	}
	return components.ContentCard(title, a.table.View()+"\n"+dimStyle.Render(note), w)
}

// rebuildTable loads the active view's filtered rows into the raw table,
// keeping the cursor where it still fits.
func (a *App) rebuildTable() {
	if a.snap == nil {
		return
	}
	p := a.vm.Panel(a.activeView())
	innerW := components.CardInnerWidth(a.mainWidth())

	n := min(len(p.Rows), maxTableRows)
	rows := make([]table.Row, n)
	for i, r := range p.Rows[:n] {
		rows[i] = table.Row{
			strconv.Itoa(r.FiscalYear),
			cli.Label(r.State),
			cli.Label(r.County),
			cli.Label(r.Product),
			cli.Label(r.LandClass),
			cli.Label(r.RevenueType),
			cli.Label(r.Commodity),
			r.FIPS,
			fmt.Sprintf("%16s", cli.FormatCurrency(r.Revenue)),
		}
	}

	cursor := a.table.Cursor()
	a.table = table.New(
		table.WithColumns(tableColumns(innerW)),
		table.WithRows(rows),
		table.WithStyles(tableStyles()), // before WithHeight, which measures the header
		table.WithHeight(tableHeight),
		table.WithWidth(innerW),
		table.WithFocused(true),
	)
	if cursor > 0 && cursor < n {
		a.table.SetCursor(cursor)
	}
}

// tableColumns sizes the raw table to width. Fixed columns keep their width
// and the text columns share the rest.
func tableColumns(width int) []table.Column {
	const (
		cellPad  = 2 // Cell style padding
		fixedSum = 6 + 8 + 6 + 16
		flexCols = 5
		allCols  = 9
	)
	flex := (width - fixedSum - allCols*cellPad) / flexCols
	if flex < 8 {
		flex = 8
	}
	return []table.Column{
		{Title: "FY", Width: 6},
		{Title: "State", Width: 8},
		{Title: "County", Width: flex},
		{Title: "Product", Width: flex},
		{Title: "Land Class", Width: flex},
		{Title: "Revenue Type", Width: flex},
		{Title: "Commodity", Width: flex},
		{Title: "FIPS", Width: 6},
		{Title: "Revenue", Width: 16},
	}
}

func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		Background(t.Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Surface).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(t.TextPrimary).
		Background(t.Surface)
	s.Selected = s.Selected.
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(false)
	return s
}
