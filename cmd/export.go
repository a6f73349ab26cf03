package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/revdash/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagExportXLSX   string
	flagExportCharts string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export both views to an Excel workbook and PNG charts",
	Example: "  revdash export --xlsx revenue.xlsx\n" +
		"  revdash export --charts ./charts --year-min 2015",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportXLSX, "xlsx", "", "Write an Excel workbook to this path")
	exportCmd.Flags().StringVar(&flagExportCharts, "charts", "", "Write PNG charts into this directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if flagExportXLSX == "" && flagExportCharts == "" {
		return errors.New("nothing to export: pass --xlsx and/or --charts")
	}

	result, err := loadData()
	if err != nil {
		return err
	}
	snap := result.Snapshot
	vm := snap.Render(currentFilter(cmd, snap))

	if flagExportXLSX != "" {
		meta := export.Meta{Source: snap.Source, LoadedAt: snap.LoadedAt}
		if err := export.SaveXLSX(flagExportXLSX, &vm, meta); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
		fmt.Printf("  Wrote %s\n", flagExportXLSX)
	}

	if flagExportCharts != "" {
		paths, err := export.WriteCharts(flagExportCharts, &vm)
		if err != nil {
			return fmt.Errorf("exporting charts: %w", err)
		}
		for _, p := range paths {
			fmt.Printf("  Wrote %s\n", p)
		}
		if len(paths) == 0 {
			fmt.Println("  No charts written: no data for the current filters.")
		}
	}
	return nil
}
