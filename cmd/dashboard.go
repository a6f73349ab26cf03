package cmd

import (
	"fmt"

	"github.com/theirongolddev/revdash/internal/config"
	"github.com/theirongolddev/revdash/internal/pipeline"
	"github.com/theirongolddev/revdash/internal/tui"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Aliases:     []string{"tui"},
	Short:       "Launch the interactive dashboard",
	Annotations: map[string]string{terminalAnnotation: "true"},
	RunE:        runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		DataFile:   dataPath(),
		UseCache:   !flagNoCache,
		MapEnabled: appConfig.Map.Enabled,
		Filter: func(snap *pipeline.Snapshot) pipeline.FilterConfig {
			return currentFilter(cmd, snap)
		},
		LoadAtlas: loadAtlas,
		Configured: func(cfg config.Config) {
			appConfig = cfg
		},
	}
	if flagView != "" {
		view, err := pipeline.ParseView(flagView)
		if err != nil {
			return err
		}
		opts.View = view
	}

	app := tui.NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.Err() != nil {
		return a.Err()
	}
	return nil
}
