package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/config"
	"github.com/theirongolddev/revdash/internal/logging"
	"github.com/theirongolddev/revdash/internal/pipeline"
	"github.com/theirongolddev/revdash/internal/source"
	"github.com/theirongolddev/revdash/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataFile     string
	flagNoCache      bool
	flagQuiet        bool
	flagView         string
	flagYearMin      int
	flagYearMax      int
	flagRevenueMin   float64
	flagRevenueMax   float64
	flagLandClasses  []string
	flagRevenueTypes []string
	flagCommodities  []string
	flagLogLevel     string
)

// appConfig is loaded once before any command runs.
var appConfig = config.DefaultConfig()

var closeLog = func() error { return nil }

// terminalAnnotation marks commands that take over the terminal, so logs go
// to a file instead of stderr.
const terminalAnnotation = "terminal"

var rootCmd = &cobra.Command{
	Use:   "revdash",
	Short: "Natural Resources Revenue Dashboard",
	Long: "Explore federal natural resources revenue by year, land class, state,\n" +
		"commodity and county, with and without rows that had missing values.",
	Annotations:       map[string]string{terminalAnnotation: "true"},
	SilenceUsage:      true,
	PersistentPreRunE: setupCommand,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = closeLog()
	},
	RunE: runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDataFile, "data", "f", "", "Revenue CSV file (default: $"+config.DataFileEnv+", config, or ./"+source.DefaultFileName+")")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse the file")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagView, "view", "", "Dataset view for single-view reports: with or without unknowns")
	pf.IntVar(&flagYearMin, "year-min", 0, "Earliest fiscal year (default: first year in data)")
	pf.IntVar(&flagYearMax, "year-max", 0, "Latest fiscal year (default: last year in data)")
	pf.Float64Var(&flagRevenueMin, "revenue-min", 0, "Minimum row revenue (default: smallest in data)")
	pf.Float64Var(&flagRevenueMax, "revenue-max", 0, "Maximum row revenue (default: largest in data)")
	pf.StringArrayVar(&flagLandClasses, "land-class", nil, "Keep only these land classes (repeatable; \"\" selects none)")
	pf.StringArrayVar(&flagRevenueTypes, "revenue-type", nil, "Keep only these revenue types (repeatable)")
	pf.StringArrayVar(&flagCommodities, "commodity", nil, "Keep only these commodities (repeatable)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
}

// setupCommand loads config and installs the process logger.
func setupCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	_, closer, err := logging.Setup(logging.Options{
		Level:       level,
		File:        cfg.Log.File,
		JSON:        cfg.Log.JSON,
		FallbackDir: pipeline.CacheDir(),
		Terminal:    cmd.Annotations[terminalAnnotation] == "true",
	})
	if err != nil {
		return err
	}
	closeLog = closer

	if err := cfg.Validate(); err != nil {
		slog.Warn("invalid config", slog.String("path", config.Path()), slog.String("error", err.Error()))
	}
	return nil
}

// dataPath resolves the CSV to load: flag, then env and config, then the
// default file name in the working directory or config directory.
func dataPath() string {
	if flagDataFile != "" {
		return flagDataFile
	}
	if p := config.DataFile(appConfig); p != "" {
		return p
	}
	return source.Discover(source.DefaultFileName, filepath.Join(config.Dir(), source.DefaultFileName))
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	path := dataPath()
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", path)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%5000 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 30))
		}
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	var result *pipeline.LoadResult
	if flagNoCache {
		r, err := pipeline.Load(path, progressFn)
		if err != nil {
			return nil, err
		}
		result = r
	} else {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			// Cache open failed, the load still goes ahead uncached
			slog.Warn("cache unavailable, doing full parse", slog.String("error", err.Error()))
		} else {
			defer func() { _ = cache.Close() }()
		}

		r, err := pipeline.LoadWithCache(path, cache, progressFn)
		if err != nil {
			return nil, err
		}
		if r.CacheErr != nil {
			slog.Warn("cache error, data was parsed directly", slog.String("error", r.CacheErr.Error()))
		}
		result = r
	}

	slog.Debug("dataset loaded",
		slog.String("path", result.File.Path),
		slog.Int("rows", len(result.Snapshot.All)),
		slog.Int("known_rows", len(result.Snapshot.Known)),
		slog.Bool("from_cache", result.FromCache))

	if !flagQuiet {
		how := "Parsed"
		if result.FromCache {
			how = "Loaded from cache"
		}
		fmt.Fprintf(os.Stderr, "\r  %s: %s rows (%s with unknowns filled)    \n",
			how,
			formatNumber(len(result.Snapshot.All)),
			formatNumber(len(result.Snapshot.All)-len(result.Snapshot.Known)),
		)
	}
	return result, nil
}

// currentFilter starts from the snapshot's default filter and applies the
// filter flags that were set on the command line.
func currentFilter(cmd *cobra.Command, snap *pipeline.Snapshot) pipeline.FilterConfig {
	cfg := snap.DefaultFilter()
	flags := cmd.Flags()

	if flags.Changed("year-min") {
		cfg.YearMin = flagYearMin
	}
	if flags.Changed("year-max") {
		cfg.YearMax = flagYearMax
	}
	if flags.Changed("revenue-min") {
		cfg.RevenueMin = flagRevenueMin
	}
	if flags.Changed("revenue-max") {
		cfg.RevenueMax = flagRevenueMax
	}
	if flags.Changed("land-class") {
		cfg.LandClasses = pipeline.ParseSetValues(flagLandClasses)
	}
	if flags.Changed("revenue-type") {
		cfg.RevenueTypes = pipeline.ParseSetValues(flagRevenueTypes)
	}
	if flags.Changed("commodity") {
		cfg.Commodities = pipeline.ParseSetValues(flagCommodities)
	}
	return cfg
}

// currentView returns the --view flag, falling back to the configured default.
func currentView() (pipeline.View, error) {
	v := flagView
	if v == "" {
		v = appConfig.General.DefaultView
	}
	return pipeline.ParseView(v)
}

// loadPanel loads data and renders the selected view under the flag filter.
func loadPanel(cmd *cobra.Command) (*pipeline.LoadResult, pipeline.Panel, error) {
	view, err := currentView()
	if err != nil {
		return nil, pipeline.Panel{}, err
	}
	result, err := loadData()
	if err != nil {
		return nil, pipeline.Panel{}, err
	}
	cfg := currentFilter(cmd, result.Snapshot)
	return result, result.Snapshot.RenderView(cfg, view), nil
}

func formatNumber(n int) string {
	return cli.FormatNumber(int64(n))
}
