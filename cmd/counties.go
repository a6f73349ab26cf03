package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/geo"
	"github.com/theirongolddev/revdash/internal/pipeline"
	"github.com/theirongolddev/revdash/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagCountyTop   int
	flagCountyNames bool
)

var countiesCmd = &cobra.Command{
	Use:   "counties",
	Short: "Revenue distribution by county FIPS code",
	RunE:  runCounties,
}

func init() {
	countiesCmd.Flags().IntVar(&flagCountyTop, "top", 25, "Show only the N largest counties (0 = all)")
	countiesCmd.Flags().BoolVar(&flagCountyNames, "names", false, "Look up county names from boundary data")
	rootCmd.AddCommand(countiesCmd)
}

func runCounties(cmd *cobra.Command, _ []string) error {
	_, panel, err := loadPanel(cmd)
	if err != nil {
		return err
	}
	if len(panel.ByCounty) == 0 {
		fmt.Println("\n  No county data for the current filters.")
		return nil
	}

	if flagCountyNames {
		if !flagQuiet {
			fmt.Println("  Fetching county boundaries...")
		}
		atlas, err := loadAtlas(cmd.Context())
		if err != nil {
			// Names are decoration only
			fmt.Printf("  County names unavailable: %v\n", err)
		} else {
			panel.AttachCountyNames(atlas.Counties)
		}
	}

	counties := panel.ByCounty
	total := len(counties)
	if flagCountyTop > 0 && len(counties) > flagCountyTop {
		counties = counties[:flagCountyTop]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(panel.ChartTitle("Revenue Distribution by County (FIPS)")))
	fmt.Println()

	rows := make([][]string, 0, len(counties))
	for _, c := range counties {
		name := c.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{
			c.FIPS,
			name,
			c.State,
			cli.FormatCurrency(c.Revenue),
			cli.FormatNumber(int64(c.Rows)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"FIPS", "County", "State", "Revenue", "Rows"},
		Rows:    rows,
	}))

	if len(counties) < total {
		fmt.Printf("\n  Showing %d of %s counties (--top 0 for all)\n", len(counties), formatNumber(total))
	}
	return nil
}

// loadAtlas fetches county centroids per the [map] config, using the SQLite
// cache unless --no-cache is set.
func loadAtlas(ctx context.Context) (*geo.Atlas, error) {
	m := appConfig.Map
	if !m.Enabled {
		return nil, fmt.Errorf("%w: map disabled in config", geo.ErrUnavailable)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := geo.NewClient(m.GeoJSONURL, time.Duration(m.TimeoutSec)*time.Second)

	var cache *store.Cache
	if !flagNoCache {
		c, err := store.Open(pipeline.CachePath())
		if err != nil {
			slog.Warn("boundary cache unavailable", slog.String("error", err.Error()))
		} else {
			defer func() { _ = c.Close() }()
			cache = c
		}
	}

	start := time.Now()
	atlas, err := geo.Load(ctx, client, cache, time.Duration(m.CacheHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	slog.Info("boundary data loaded",
		slog.Int("counties", atlas.Len()),
		slog.Bool("from_cache", atlas.FromCache),
		slog.Bool("stale", atlas.Stale),
		slog.Duration("elapsed", time.Since(start)))
	if atlas.Err != nil {
		slog.Warn("boundary data degraded", slog.String("error", atlas.Err.Error()))
	}
	return atlas, nil
}
