package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"
	"github.com/theirongolddev/revdash/internal/tui/components"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Sidebar controls, top to bottom.
const (
	fieldYearMin = iota
	fieldYearMax
	fieldRevenueMin
	fieldRevenueMax
	fieldLandClass
	fieldRevenueType
	fieldCommodity
	fieldReset
	fieldCount
)

const (
	yearBigStep = 5
	// Revenue moves in ticks of 1/revenueSteps of the observed span, ten
	// ticks with shift.
	revenueSteps = 100
)

type sidebarState struct {
	focused bool
	cursor  int
}

// updateSidebar handles a key while the sidebar has focus. handled is false
// for keys the sidebar leaves to the global bindings.
func (a *App) updateSidebar(key string) (handled bool, cmd tea.Cmd) {
	switch key {
	case "esc":
		a.sidebar.focused = false
	case "j", "down":
		if a.sidebar.cursor < fieldCount-1 {
			a.sidebar.cursor++
		}
	case "k", "up":
		if a.sidebar.cursor > 0 {
			a.sidebar.cursor--
		}
	case "left", "h":
		a.adjust(a.sidebar.cursor, -1, false)
	case "right", "l":
		a.adjust(a.sidebar.cursor, 1, false)
	case "shift+left", "H":
		a.adjust(a.sidebar.cursor, -1, true)
	case "shift+right", "L":
		a.adjust(a.sidebar.cursor, 1, true)
	case "enter", " ":
		switch a.sidebar.cursor {
		case fieldLandClass, fieldRevenueType, fieldCommodity:
			return true, a.openPicker(a.sidebar.cursor)
		case fieldReset:
			a.resetFilter()
		}
	case "r":
		a.resetFilter()
	default:
		return false, nil
	}
	return true, nil
}

// adjust moves one range bound by dir steps. Bounds stay within the observed
// extent and never cross each other.
func (a *App) adjust(field, dir int, big bool) {
	if a.snap == nil {
		return
	}
	b := a.snap.Bounds
	f := &a.filter

	switch field {
	case fieldYearMin, fieldYearMax:
		step := 1
		if big {
			step = yearBigStep
		}
		if field == fieldYearMin {
			f.YearMin = clampInt(f.YearMin+dir*step, b.MinYear, f.YearMax)
		} else {
			f.YearMax = clampInt(f.YearMax+dir*step, f.YearMin, b.MaxYear)
		}

	case fieldRevenueMin, fieldRevenueMax:
		ticks := dir
		if big {
			ticks *= 10
		}
		if field == fieldRevenueMin {
			v := revenueAt(b, revenueTick(b, f.RevenueMin)+ticks)
			f.RevenueMin = clampFloat(v, b.MinRevenue, f.RevenueMax)
		} else {
			v := revenueAt(b, revenueTick(b, f.RevenueMax)+ticks)
			f.RevenueMax = clampFloat(v, f.RevenueMin, b.MaxRevenue)
		}

	default:
		return
	}
	a.recompute()
}

func (a *App) resetFilter() {
	if a.snap == nil {
		return
	}
	a.filter = a.snap.DefaultFilter()
	a.scroll = 0
	a.recompute()
}

// revenueTick returns the slider tick nearest to v, 0 at the observed
// minimum and revenueSteps at the maximum.
func revenueTick(b model.Bounds, v float64) int {
	span := b.MaxRevenue - b.MinRevenue
	if span <= 0 {
		return 0
	}
	return int(math.Round((v - b.MinRevenue) / span * revenueSteps))
}

// revenueAt is the revenue at a tick. The end ticks are the observed bounds
// exactly, so rows sitting on a bound stay in range.
func revenueAt(b model.Bounds, tick int) float64 {
	switch {
	case tick <= 0:
		return b.MinRevenue
	case tick >= revenueSteps:
		return b.MaxRevenue
	}
	return b.MinRevenue + float64(tick)*(b.MaxRevenue-b.MinRevenue)/revenueSteps
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ─── Category picker ────────────────────────────────────────────

// pickerChoices returns the observed values and current selection for a
// category field.
func (a App) pickerChoices(field int) (title string, all []string, current pipeline.StringSet) {
	b := a.snap.Bounds
	switch field {
	case fieldLandClass:
		return "Land Class", b.LandClasses, a.filter.LandClasses
	case fieldRevenueType:
		return "Revenue Type", b.RevenueTypes, a.filter.RevenueTypes
	default:
		return "Commodity", b.Commodities, a.filter.Commodities
	}
}

// openPicker shows a multi-select over every observed value of field,
// preselected with the current filter.
func (a *App) openPicker(field int) tea.Cmd {
	if a.snap == nil {
		return nil
	}
	title, all, current := a.pickerChoices(field)

	selected := current.Sorted()
	a.pickVals = &selected
	a.pickField = field

	options := make([]huh.Option[string], 0, len(all))
	for _, v := range all {
		options = append(options, huh.NewOption(cli.Label(v), v).Selected(current.Has(v)))
	}

	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))

	height := min(len(all)+2, a.height-10)
	if height < 4 {
		height = 4
	}

	a.picker = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description("space toggle · ctrl+a all · / search · enter apply").
				Options(options...).
				Height(height).
				Value(a.pickVals),
		),
	).WithTheme(huh.ThemeDracula()).
		WithKeyMap(km).
		WithWidth(a.pickerWidth()).
		WithShowHelp(true)

	return a.picker.Init()
}

func (a App) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.picker = f
	}

	switch a.picker.State {
	case huh.StateCompleted:
		a.applyPick()
		a.picker = nil
		a.pickVals = nil
		return a, nil

	case huh.StateAborted:
		a.picker = nil
		a.pickVals = nil
		return a, nil
	}

	return a, cmd
}

// applyPick replaces the picked category set and recomputes. An empty pick
// is kept as an empty set, which filters every row out.
func (a *App) applyPick() {
	set := pipeline.NewStringSet(*a.pickVals...)
	switch a.pickField {
	case fieldLandClass:
		a.filter.LandClasses = set
	case fieldRevenueType:
		a.filter.RevenueTypes = set
	case fieldCommodity:
		a.filter.Commodities = set
	}
	a.scroll = 0
	a.recompute()
}

func (a App) pickerWidth() int {
	w := a.width - 8
	if w > 64 {
		w = 64
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (a App) viewPicker() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(a.picker.View()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Rendering ──────────────────────────────────────────────────

func (a App) renderSidebar(w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	sectionStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	cursorStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	row := func(field int, label, value string) string {
		gap := innerW - 2 - lipgloss.Width(label) - lipgloss.Width(value)
		if gap < 1 {
			gap = 1
		}
		text := label + strings.Repeat(" ", gap) + value
		if a.sidebar.focused && a.sidebar.cursor == field {
			return cursorStyle.Render("▸ " + text)
		}
		return labelStyle.Render("  "+label+strings.Repeat(" ", gap)) + valueStyle.Render(value)
	}

	f := a.filter
	var bounds pipeline.FilterConfig
	counts := [3]int{}
	if a.snap != nil {
		bounds = a.snap.DefaultFilter()
		counts = [3]int{
			len(a.snap.Bounds.LandClasses),
			len(a.snap.Bounds.RevenueTypes),
			len(a.snap.Bounds.Commodities),
		}
	}

	var lines []string
	lines = append(lines,
		sectionStyle.Render("Fiscal Year"),
		row(fieldYearMin, "From", "◂ "+strconv.Itoa(f.YearMin)+" ▸"),
		row(fieldYearMax, "To", "◂ "+strconv.Itoa(f.YearMax)+" ▸"),
		"  "+rangeTrack(float64(f.YearMin), float64(f.YearMax),
			float64(bounds.YearMin), float64(bounds.YearMax), innerW-2),
		"",
		sectionStyle.Render("Revenue"),
		row(fieldRevenueMin, "Min", "◂ "+cli.FormatRevenue(f.RevenueMin)+" ▸"),
		row(fieldRevenueMax, "Max", "◂ "+cli.FormatRevenue(f.RevenueMax)+" ▸"),
		"  "+rangeTrack(f.RevenueMin, f.RevenueMax, bounds.RevenueMin, bounds.RevenueMax, innerW-2),
		"",
		sectionStyle.Render("Categories"),
		row(fieldLandClass, "Land class", fmt.Sprintf("%d/%d ▸", f.LandClasses.Len(), counts[0])),
		row(fieldRevenueType, "Revenue type", fmt.Sprintf("%d/%d ▸", f.RevenueTypes.Len(), counts[1])),
		row(fieldCommodity, "Commodity", fmt.Sprintf("%d/%d ▸", f.Commodities.Len(), counts[2])),
		"",
		row(fieldReset, "Reset filters", "↺"),
		"",
	)
	if a.sidebar.focused {
		lines = append(lines, hintStyle.Render("←/→ adjust · enter pick"), hintStyle.Render("esc done"))
	} else {
		lines = append(lines, hintStyle.Render("tab to edit filters"))
	}

	return components.ContentCard("Filters", strings.Join(lines, "\n"), w)
}

// rangeTrack draws a slider track with handles at lo and hi, scaled to the
// [boundLo, boundHi] extent.
func rangeTrack(lo, hi, boundLo, boundHi float64, width int) string {
	t := theme.Active
	if width < 3 {
		width = 3
	}

	pos := func(v float64) int {
		if boundHi <= boundLo {
			return 0
		}
		p := int(math.Round((v - boundLo) / (boundHi - boundLo) * float64(width-1)))
		return clampInt(p, 0, width-1)
	}
	from, to := pos(lo), pos(hi)
	if boundHi <= boundLo {
		to = width - 1
	}

	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	onStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	handleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == from || i == to:
			b.WriteString(handleStyle.Render("●"))
		case i > from && i < to:
			b.WriteString(onStyle.Render("━"))
		default:
			b.WriteString(offStyle.Render("─"))
		}
	}
	return b.String()
}
