package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/revdash/internal/cli"

	"github.com/spf13/cobra"
)

var flagRowLimit int

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Print the filtered raw rows",
	RunE:  runRows,
}

func init() {
	rowsCmd.Flags().IntVarP(&flagRowLimit, "limit", "n", 50, "Maximum rows to print (0 = all)")
	rootCmd.AddCommand(rowsCmd)
}

func runRows(cmd *cobra.Command, _ []string) error {
	_, panel, err := loadPanel(cmd)
	if err != nil {
		return err
	}

	records := panel.Rows
	if len(records) == 0 {
		fmt.Println("\n  No rows match the current filters.")
		return nil
	}
	if flagRowLimit > 0 && len(records) > flagRowLimit {
		records = records[:flagRowLimit]
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.FiscalYear),
			r.State,
			r.County,
			r.Product,
			cli.Label(r.LandClass),
			cli.Label(r.RevenueType),
			cli.Label(r.Commodity),
			cli.FormatCurrency(r.Revenue),
			r.FIPS,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title: panel.Title,
		Headers: []string{"Year", "State", "County", "Product", "Land Class",
			"Revenue Type", "Commodity", "Revenue", "FIPS"},
		Rows: rows,
	}))

	if len(records) < len(panel.Rows) {
		fmt.Printf("\n  Showing %s of %s rows (--limit 0 for all)\n",
			formatNumber(len(records)), formatNumber(len(panel.Rows)))
	}
	return nil
}
