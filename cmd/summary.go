package cmd

import (
	"fmt"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline revenue numbers for both views",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	snap := result.Snapshot
	vm := snap.Render(currentFilter(cmd, snap))
	with, without := vm.WithUnknowns.Summary, vm.WithoutUnknowns.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle("NATURAL RESOURCES REVENUE  " +
		cli.FormatYearSpan(vm.Filter.YearMin, vm.Filter.YearMax)))
	fmt.Println()

	rows := [][]string{
		{"Rows", cli.FormatNumber(int64(with.Rows)), cli.FormatNumber(int64(without.Rows))},
		{"Fiscal Years", cli.FormatYearSpan(with.MinYear, with.MaxYear), cli.FormatYearSpan(without.MinYear, without.MaxYear)},
		{"---"},
		{"Total Revenue", cli.FormatCurrency(with.TotalRevenue), cli.FormatCurrency(without.TotalRevenue)},
		{"States", cli.FormatNumber(int64(with.States)), cli.FormatNumber(int64(without.States))},
		{"Counties", cli.FormatNumber(int64(with.Counties)), cli.FormatNumber(int64(without.Counties))},
		{"Commodities", cli.FormatNumber(int64(with.Commodities)), cli.FormatNumber(int64(without.Commodities))},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", pipeline.ViewWith.Title(), pipeline.ViewWithout.Title()},
		Rows:    rows,
	}))

	filled := result.Filled
	if filled.Total() > 0 {
		fmt.Printf("\n  Missing values filled: %s state, %s county, %s product\n",
			cli.FormatNumber(int64(filled.State)),
			cli.FormatNumber(int64(filled.County)),
			cli.FormatNumber(int64(filled.Product)))
	}
	if with.Rows == 0 {
		fmt.Println("\n  No rows match the current filters.")
	}
	return nil
}
