package cmd

import (
	"fmt"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTop int

var landClassesCmd = &cobra.Command{
	Use:   "land-classes",
	Short: "Revenue breakdown by land class",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGroups(cmd, "Revenue Breakdown by Land Class", "Land Class",
			func(p pipeline.Panel) []model.GroupTotal { return p.ByLandClass })
	},
}

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Revenue by state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGroups(cmd, "Revenue by State", "State",
			func(p pipeline.Panel) []model.GroupTotal { return p.ByState })
	},
}

var commoditiesCmd = &cobra.Command{
	Use:   "commodities",
	Short: "Revenue by commodity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGroups(cmd, "Revenue by Commodity", "Commodity",
			func(p pipeline.Panel) []model.GroupTotal { return p.ByCommodity })
	},
}

func init() {
	for _, c := range []*cobra.Command{landClassesCmd, statesCmd, commoditiesCmd} {
		c.Flags().IntVar(&flagTop, "top", 0, "Show only the N largest groups (0 = all)")
		rootCmd.AddCommand(c)
	}
}

func runGroups(cmd *cobra.Command, title, keyName string, pick func(pipeline.Panel) []model.GroupTotal) error {
	_, panel, err := loadPanel(cmd)
	if err != nil {
		return err
	}

	groups := pick(panel)
	if len(groups) == 0 {
		fmt.Println("\n  No data for the current filters.")
		return nil
	}
	if flagTop > 0 && len(groups) > flagTop {
		groups = groups[:flagTop]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(panel.ChartTitle(title)))
	fmt.Println()

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			cli.Label(g.Key),
			cli.FormatCurrency(g.Revenue),
			cli.FormatPercent(g.Share),
			cli.FormatNumber(int64(g.Rows)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{keyName, "Revenue", "Share", "Rows"},
		Rows:    rows,
	}))
	fmt.Println()

	printBars(groups)
	return nil
}

// printBars draws the first ten groups as horizontal bars scaled to the
// largest absolute revenue.
func printBars(groups []model.GroupTotal) {
	if len(groups) > 10 {
		groups = groups[:10]
	}

	var maxVal float64
	labelW := 8
	for _, g := range groups {
		v := g.Revenue
		if v < 0 {
			v = -v
		}
		if v > maxVal {
			maxVal = v
		}
		if n := len(cli.Label(g.Key)); n > labelW {
			labelW = n
		}
	}
	if labelW > 24 {
		labelW = 24
	}

	for _, g := range groups {
		fmt.Println(cli.RenderHorizontalBar(cli.Label(g.Key), g.Revenue, maxVal, labelW, 30))
	}
}
