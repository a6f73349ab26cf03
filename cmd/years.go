package cmd

import (
	"fmt"

	"github.com/theirongolddev/revdash/internal/cli"

	"github.com/spf13/cobra"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Revenue trend by fiscal year",
	RunE:  runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, _ []string) error {
	_, panel, err := loadPanel(cmd)
	if err != nil {
		return err
	}
	if len(panel.ByYear) == 0 {
		fmt.Println("\n  No data for the current filters.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(panel.ChartTitle("Revenue Trends Over Time")))
	fmt.Println()

	values := make([]float64, 0, len(panel.ByYear))
	rows := make([][]string, 0, len(panel.ByYear))
	for _, y := range panel.ByYear {
		values = append(values, y.Revenue)
		rows = append(rows, []string{
			fmt.Sprintf("%d", y.Year),
			cli.FormatCurrency(y.Revenue),
			cli.FormatNumber(int64(y.Rows)),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", cli.FormatCurrency(panel.Summary.TotalRevenue), cli.FormatNumber(int64(panel.Summary.Rows))})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Year", "Revenue", "Rows"},
		Rows:    rows,
	}))

	fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(values))
	return nil
}
