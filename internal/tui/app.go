// Package tui provides the interactive Bubble Tea dashboard for revdash.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/config"
	"github.com/theirongolddev/revdash/internal/geo"
	"github.com/theirongolddev/revdash/internal/pipeline"
	"github.com/theirongolddev/revdash/internal/store"
	"github.com/theirongolddev/revdash/internal/tui/components"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Title is shown above the tab bar.
const Title = "Natural Resources Revenue Dashboard"

// Options configures a dashboard run.
type Options struct {
	DataFile string
	UseCache bool
	// View selects the tab to open on. Empty opens the overview.
	View pipeline.View
	// MapEnabled starts the boundary download after the data loads.
	MapEnabled bool
	// Filter returns the starting filter for a freshly loaded snapshot.
	// Nil starts from the snapshot's default filter.
	Filter    func(*pipeline.Snapshot) pipeline.FilterConfig
	LoadAtlas func(context.Context) (*geo.Atlas, error)
	// Configured is called after the first-run setup saves a config.
	Configured func(config.Config)
}

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// AtlasLoadedMsg is sent when the county boundary fetch completes.
type AtlasLoadedMsg struct {
	Atlas *geo.Atlas
	Err   error
}

// App is the root Bubble Tea model.
type App struct {
	opts       Options
	dataFile   string
	mapEnabled bool

	// Data
	result   *pipeline.LoadResult
	snap     *pipeline.Snapshot
	loaded   bool
	loadTime time.Duration
	err      error

	// Boundary data
	atlas        *geo.Atlas
	atlasErr     error
	atlasLoading bool

	// Derived for the current filter
	filter pipeline.FilterConfig
	vm     pipeline.ViewModel

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int
	table     table.Model
	sidebar   sidebarState

	// Category picker (huh multi-select overlay)
	picker    *huh.Form
	pickField int
	pickVals  *[]string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	sidebarWidth     = 34

	// Scroll navigation
	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1  // minimum lines for half-page scroll
	minContentHeight  = 5  // minimum content area height

	atlasTimeout = 90 * time.Second
)

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabWith
	tabWithout
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	needSetup := !config.Exists()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		opts:       opts,
		dataFile:   opts.DataFile,
		mapEnabled: opts.MapEnabled,
		needSetup:  needSetup,
		spinner:    sp,
		loadSub:    make(chan tea.Msg, 1),
	}

	switch opts.View {
	case pipeline.ViewWith:
		a.activeTab = tabWith
	case pipeline.ViewWithout:
		a.activeTab = tabWithout
	}

	if needSetup {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		vals := NewSetupValues(cfg)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Err returns the load error that ended the session, if any.
func (a App) Err() error {
	return a.err
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return tea.Batch(tea.EnableMouseCellMotion, a.setupForm.Init())
	}
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataFile, a.opts.UseCache, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute re-renders both views from the immutable snapshot under the
// current filter.
func (a *App) recompute() {
	if a.snap == nil {
		return
	}
	a.vm = a.snap.Render(a.filter)
	if a.atlas.Len() > 0 {
		a.vm.WithUnknowns.AttachCountyNames(a.atlas.Counties)
		a.vm.WithoutUnknowns.AttachCountyNames(a.atlas.Counties)
	}
	a.rebuildTable()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to active forms
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.picker != nil {
			a.picker = a.picker.WithWidth(a.pickerWidth())
		}
		a.rebuildTable()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.err != nil || a.showHelp || a.picker != nil || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scrollBy(-3)
			return a, nil

		case tea.MouseButtonWheelDown:
			a.scrollBy(3)
			return a, nil

		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				return a, nil
			}
			// The tab row is the second header line
			if msg.Y == 1 {
				if tab := a.tabAtX(msg.X - a.contentLeft()); tab >= 0 && tab < len(components.Tabs) {
					a.switchTab(tab)
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if !a.loaded {
			return a, nil
		}

		// A failed load shows the error until any key is pressed
		if a.err != nil {
			return a, tea.Quit
		}

		if a.picker != nil {
			return a.updatePicker(msg)
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if key == "q" {
			return a, tea.Quit
		}

		if key == "tab" {
			a.sidebar.focused = !a.sidebar.focused
			return a, nil
		}

		if a.sidebar.focused {
			if handled, cmd := a.updateSidebar(key); handled {
				return a, cmd
			}
		}

		switch key {
		case "o", "w", "u":
			a.switchTab(components.TabIdxByKey(rune(key[0])))
		case "left":
			a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "right":
			a.switchTab((a.activeTab + 1) % len(components.Tabs))
		case "j", "down":
			a.table.MoveDown(1)
		case "k", "up":
			a.table.MoveUp(1)
		case "g":
			a.table.GotoTop()
		case "G":
			a.table.GotoBottom()
		case "J":
			a.scrollBy(1)
		case "K":
			a.scrollBy(-1)
		case "ctrl+d":
			a.scrollBy(a.halfPage())
		case "ctrl+u":
			a.scrollBy(-a.halfPage())
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.result = msg.Result
		a.snap = msg.Result.Snapshot
		if a.opts.Filter != nil {
			a.filter = a.opts.Filter(a.snap)
		} else {
			a.filter = a.snap.DefaultFilter()
		}
		a.recompute()

		if a.mapEnabled && a.opts.LoadAtlas != nil {
			a.atlasLoading = true
			return a, loadAtlasCmd(a.opts.LoadAtlas)
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case AtlasLoadedMsg:
		a.atlasLoading = false
		a.atlas = msg.Atlas
		a.atlasErr = msg.Err
		if a.atlasErr == nil && a.atlas != nil {
			a.atlasErr = a.atlas.Err
		}
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.atlasLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.picker != nil {
		return a.updatePicker(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := SaveSetup(*a.setupVals)
		if err != nil {
			slog.Warn("saving setup failed", slog.String("error", err.Error()))
		}
		if p := strings.TrimSpace(a.setupVals.DataFile); p != "" {
			a.dataFile = p
		}
		a.mapEnabled = cfg.Map.Enabled
		if a.opts.Configured != nil {
			a.opts.Configured(cfg)
		}
		return a.finishSetup()

	case huh.StateAborted:
		return a.finishSetup()
	}

	return a, cmd
}

// finishSetup closes the setup form and starts loading.
func (a App) finishSetup() (tea.Model, tea.Cmd) {
	a.needSetup = false
	a.setupForm = nil
	return a, tea.Batch(
		loadDataCmd(a.dataFile, a.opts.UseCache, a.loadSub),
		a.spinner.Tick,
	)
}

func (a *App) switchTab(tab int) {
	if tab < 0 || tab >= len(components.Tabs) || tab == a.activeTab {
		return
	}
	a.activeTab = tab
	a.scroll = 0
	a.rebuildTable()
}

// activeView is the dataset view behind the active tab.
func (a App) activeView() pipeline.View {
	if a.activeTab == tabWithout {
		return pipeline.ViewWithout
	}
	return pipeline.ViewWith
}

func (a App) halfPage() int {
	halfPage := (a.height - scrollOverhead) / 2
	if halfPage < minHalfPageScroll {
		halfPage = minHalfPageScroll
	}
	return halfPage
}

// scrollBy moves the content offset, clamped to the rendered content.
func (a *App) scrollBy(n int) {
	a.scroll += n
	if maxScroll := a.maxScroll(); a.scroll > maxScroll {
		a.scroll = maxScroll
	}
	if a.scroll < 0 {
		a.scroll = 0
	}
}

func (a App) maxScroll() int {
	lines := lipgloss.Height(a.renderTab(a.mainWidth()))
	m := lines - a.contentHeight()
	if m < 0 {
		return 0
	}
	return m
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// contentLeft is the column where centered content starts.
func (a App) contentLeft() int {
	if a.width > maxContentWidth {
		return (a.width - maxContentWidth) / 2
	}
	return 0
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) sidebarVisible() bool {
	return !a.isCompactLayout() || a.sidebar.focused
}

// mainWidth is the width left for tab content beside the sidebar.
func (a App) mainWidth() int {
	cw := a.contentWidth()
	if a.sidebarVisible() {
		cw -= sidebarWidth
	}
	if cw < 40 {
		cw = 40
	}
	return cw
}

// contentHeight is the height between the header and the status bar.
func (a App) contentHeight() int {
	h := a.height - lipgloss.Height(a.renderHeader()) - 1
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.err != nil {
		return a.viewError()
	}

	if a.picker != nil {
		return a.viewPicker()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  revdash needs at least %d columns.\n  Current width: %d\n",
		a.width,
		minTerminalWidth,
		a.width,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◆ revdash"))
	b.WriteString(subtitleStyle.Render(" · " + Title))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing revenue rows\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Loading " + components.Truncate(a.dataFile, 50)))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3).
		Width(min(a.width-4, 90))

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ Could not load revenue data"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(a.err.Error()))
	b.WriteString("\n\n")
	if errors.Is(a.err, errNoDataFile) || errors.Is(a.err, os.ErrNotExist) {
		b.WriteString(dimStyle.Render("Pass --data, set $" + config.DataFileEnv + " or run revdash setup."))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("Press any key to exit"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◆ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o w u", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through raw table"},
			{"g G", "First / Last table row"},
			{"J K", "Scroll content"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Filters", []struct{ key, desc string }{
			{"tab", "Focus / leave filter sidebar"},
			{"j k", "Select control"},
			{"← →", "Adjust range"},
			{"⇧← ⇧→", "Adjust range in large steps"},
			{"Enter", "Open picker / Reset"},
			{"Esc", "Cancel picker / leave sidebar"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderHeader renders the title, tab bar and filter pill.
func (a App) renderHeader() string {
	t := theme.Active
	w := a.contentWidth()

	filterPillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	filterAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	f := a.filter
	sep := filterPillStyle.Render(" │ ")
	filterStr := filterPillStyle.Render(" FY ") +
		filterAccentStyle.Render(cli.FormatYearSpan(f.YearMin, f.YearMax)) + sep +
		filterAccentStyle.Render(cli.FormatRevenue(f.RevenueMin)+" to "+cli.FormatRevenue(f.RevenueMax))
	if a.snap != nil {
		b := a.snap.Bounds
		filterStr += sep + filterPillStyle.Render("land ") +
			filterAccentStyle.Render(fmt.Sprintf("%d/%d", f.LandClasses.Len(), len(b.LandClasses))) +
			sep + filterPillStyle.Render("types ") +
			filterAccentStyle.Render(fmt.Sprintf("%d/%d", f.RevenueTypes.Len(), len(b.RevenueTypes))) +
			sep + filterPillStyle.Render("commodities ") +
			filterAccentStyle.Render(fmt.Sprintf("%d/%d", f.Commodities.Len(), len(b.Commodities)))
	}
	filterStr += filterPillStyle.Render(" ")

	filterRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	return components.RenderTabBar(Title, a.activeTab, w) + "\n" +
		filterRowStyle.Render(filterStr)
}

func (a App) renderStatusBar() string {
	dataInfo := ""
	if a.result != nil {
		how := "parsed"
		if a.result.FromCache {
			how = "cache"
		}
		dataInfo = fmt.Sprintf("%s rows · %s · %.1fs",
			cli.FormatNumber(int64(len(a.snap.All))), how, a.loadTime.Seconds())
	}

	mapInfo, mapOK := "map off", true
	switch {
	case !a.mapEnabled || a.opts.LoadAtlas == nil:
	case a.atlasLoading:
		mapInfo = "map " + a.spinner.View() + " loading"
	case a.atlas.Len() == 0:
		mapInfo, mapOK = "map unavailable", false
	case a.atlas.Stale:
		mapInfo, mapOK = fmt.Sprintf("map %s counties (stale)", cli.FormatNumber(int64(a.atlas.Len()))), false
	default:
		mapInfo = fmt.Sprintf("map %s counties", cli.FormatNumber(int64(a.atlas.Len())))
	}

	return components.RenderStatusBar(a.contentWidth(), dataInfo, mapInfo, mapOK)
}

// renderTab renders the active tab body at width cw.
func (a App) renderTab(cw int) string {
	switch a.activeTab {
	case tabWith:
		return a.renderViewTab(pipeline.ViewWith, cw)
	case tabWithout:
		return a.renderViewTab(pipeline.ViewWithout, cw)
	default:
		return a.renderOverviewTab(cw)
	}
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	h := a.height

	// 1. Header and status bar
	header := a.renderHeader()
	statusBar := a.renderStatusBar()

	// 2. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 3. Tab content, scrolled, truncated and padded to exactly contentH lines
	mainW := a.mainWidth()
	content := scrollLines(a.renderTab(mainW), a.scroll)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, mainW, t.Background)

	// 4. Sidebar on the left
	if a.sidebarVisible() {
		side := padHeight(truncateHeight(a.renderSidebar(sidebarWidth), contentH), contentH)
		side = fillLinesWithBackground(side, sidebarWidth, t.Background)
		content = lipgloss.JoinHorizontal(lipgloss.Top, side, content)
	}

	// 5. Place content with background fill (handles centering when w > cw)
	body := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Top, body,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// errNoDataFile marks a load that had no file path to read.
var errNoDataFile = errors.New("no revenue data file found")

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(path string, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			if path == "" {
				sub <- DataLoadedMsg{Err: errNoDataFile, LoadTime: time.Since(start)}
				return
			}

			// Progress callback: non-blocking send so the parser isn't stalled.
			// If the channel is full, we skip this update and the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			var (
				result *pipeline.LoadResult
				err    error
			)
			if useCache {
				cache, openErr := store.Open(pipeline.CachePath())
				if openErr != nil {
					slog.Warn("cache unavailable, doing full parse", slog.String("error", openErr.Error()))
					cache = nil
				}
				result, err = pipeline.LoadWithCache(path, cache, progressFn)
				if cache != nil {
					_ = cache.Close()
				}
				if err == nil && result.CacheErr != nil {
					slog.Warn("cache error, data was parsed directly", slog.String("error", result.CacheErr.Error()))
				}
			} else {
				result, err = pipeline.Load(path, progressFn)
			}

			if err != nil {
				slog.Error("loading data failed", slog.String("path", path), slog.String("error", err.Error()))
			} else {
				slog.Info("dataset loaded",
					slog.String("path", path),
					slog.Int("rows", len(result.Snapshot.All)),
					slog.Bool("from_cache", result.FromCache),
					slog.Duration("elapsed", time.Since(start)))
			}
			sub <- DataLoadedMsg{Result: result, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// loadAtlasCmd fetches county boundaries in the background.
func loadAtlasCmd(load func(context.Context) (*geo.Atlas, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), atlasTimeout)
		defer cancel()
		atlas, err := load(ctx)
		return AtlasLoadedMsg{Atlas: atlas, Err: err}
	}
}

// scrollLines drops the first n lines of s.
func scrollLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if n >= len(lines) {
		return ""
	}
	return strings.Join(lines[n:], "\n")
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
