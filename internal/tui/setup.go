package tui

import (
	"strings"

	"github.com/theirongolddev/revdash/internal/config"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	DataFile   string
	Theme      string
	MapEnabled bool
	View       string
}

// NewSetupValues seeds the form from an existing config.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		DataFile:   cfg.General.DataFile,
		Theme:      cfg.Appearance.Theme,
		MapEnabled: cfg.Map.Enabled,
		View:       cfg.General.DefaultView,
	}
}

// NewSetupForm builds the first-run form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to revdash").
				Description("Natural Resources Revenue Dashboard.\nAnswers are saved to "+config.Path()+"."),

			huh.NewInput().
				Title("Revenue CSV file").
				Description("Leave blank to use ./fiscal_year_revenue.csv or $"+config.DataFileEnv+".").
				Placeholder("/path/to/fiscal_year_revenue.csv").
				Value(&vals.DataFile),

			huh.NewSelect[string]().
				Title("Default view for reports").
				Options(
					huh.NewOption("With Unknowns", "with"),
					huh.NewOption("Without Unknowns", "without"),
				).
				Value(&vals.View),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),

			huh.NewConfirm().
				Title("Download county boundaries for the map?").
				Description("Fetched once and cached; everything else works offline.").
				Affirmative("Yes").
				Negative("No").
				Value(&vals.MapEnabled),
		),
	).WithTheme(huh.ThemeDracula())
}

// SaveSetup writes the answers into the config file and activates the theme.
func SaveSetup(vals SetupValues) (config.Config, error) {
	cfg, _ := config.Load()

	cfg.General.DataFile = strings.TrimSpace(vals.DataFile)
	if vals.View != "" {
		cfg.General.DefaultView = vals.View
	}
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
		theme.SetActive(vals.Theme)
	}
	cfg.Map.Enabled = vals.MapEnabled
	if cfg.Map.Enabled && cfg.Map.GeoJSONURL == "" {
		cfg.Map.GeoJSONURL = config.DefaultGeoJSONURL
	}

	return cfg, config.Save(cfg)
}
