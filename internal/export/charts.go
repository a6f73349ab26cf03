package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyChart indicates the panel has nothing to plot for a chart.
var ErrEmptyChart = errors.New("export: no data for the current filters")

// Chart names accepted by RenderChart.
const (
	ChartYears       = "years"
	ChartLandClasses = "land-classes"
	ChartStates      = "states"
	ChartCommodities = "commodities"
	ChartCounties    = "counties"
)

// Charts lists every chart in dashboard order.
var Charts = []string{ChartYears, ChartLandClasses, ChartStates, ChartCommodities, ChartCounties}

const (
	chartWidth  = 1024
	chartHeight = 512
	maxBars     = 15
	labelLen    = 14
)

var (
	colorAccent   = drawing.ColorFromHex("3AA99F")
	colorNegative = drawing.ColorFromHex("D14D41")
)

// ChartTitle returns the display title for a chart name.
func ChartTitle(name string) string {
	switch name {
	case ChartYears:
		return "Revenue Trends Over Time"
	case ChartLandClasses:
		return "Revenue Breakdown by Land Class"
	case ChartStates:
		return "Revenue by State"
	case ChartCommodities:
		return "Revenue by Commodity"
	case ChartCounties:
		return "Revenue Distribution by County (FIPS)"
	}
	return name
}

// RenderChart draws one chart of p as PNG.
func RenderChart(out io.Writer, p pipeline.Panel, name string) error {
	title := p.ChartTitle(ChartTitle(name))
	switch name {
	case ChartYears:
		return renderYears(out, p, title)
	case ChartLandClasses:
		return renderLandClasses(out, p, title)
	case ChartStates:
		return renderBars(out, title, groupValues(p.ByState))
	case ChartCommodities:
		return renderBars(out, title, groupValues(p.ByCommodity))
	case ChartCounties:
		values := make([]chart.Value, 0, len(p.ByCounty))
		for _, c := range p.ByCounty {
			label := c.FIPS
			if c.Name != "" {
				label = c.Name + " " + c.FIPS
			}
			values = append(values, chart.Value{Label: label, Value: c.Revenue})
		}
		return renderBars(out, title, values)
	}
	return fmt.Errorf("export: unknown chart %q", name)
}

// WriteCharts renders every non-empty chart of both views into dir and
// returns the written paths. Empty charts are skipped.
func WriteCharts(dir string, vm *pipeline.ViewModel) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart dir: %w", err)
	}

	var written []string
	for _, p := range []pipeline.Panel{vm.WithUnknowns, vm.WithoutUnknowns} {
		for _, name := range Charts {
			path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", p.View, name))
			err := writeChart(path, p, name)
			if errors.Is(err, ErrEmptyChart) {
				continue
			}
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func writeChart(path string, p pipeline.Panel, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := RenderChart(f, p, name); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func renderYears(out io.Writer, p pipeline.Panel, title string) error {
	if len(p.ByYear) == 0 {
		return ErrEmptyChart
	}

	xs := make([]float64, 0, len(p.ByYear))
	ys := make([]float64, 0, len(p.ByYear))
	for _, y := range p.ByYear {
		xs = append(xs, float64(y.Year))
		ys = append(ys, y.Revenue)
	}
	// Pad to at least two X values for go-chart
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	lo, hi := valueRange(ys)
	c := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(math.Round(f)))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: revenueFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Revenue",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: colorAccent,
					StrokeWidth: 2,
					DotColor:    colorAccent,
					DotWidth:    3,
				},
			},
		},
	}
	return c.Render(chart.PNG, out)
}

// renderLandClasses draws a pie of the positive shares. Land classes with a
// net negative total cannot be drawn as slices and are left out.
func renderLandClasses(out io.Writer, p pipeline.Panel, title string) error {
	values := make([]chart.Value, 0, len(p.ByLandClass))
	for _, g := range p.ByLandClass {
		if g.Revenue <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: cli.Label(g.Key), Value: g.Revenue})
	}
	if len(values) == 0 {
		return ErrEmptyChart
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return pie.Render(chart.PNG, out)
}

func renderBars(out io.Writer, title string, values []chart.Value) error {
	if len(values) == 0 {
		return ErrEmptyChart
	}
	if len(values) > maxBars {
		values = values[:maxBars]
	}

	ys := make([]float64, len(values))
	for i := range values {
		ys[i] = values[i].Value
		if len([]rune(values[i].Label)) > labelLen {
			values[i].Label = string([]rune(values[i].Label)[:labelLen-1]) + "…"
		}
		fill := colorAccent
		if values[i].Value < 0 {
			fill = colorNegative
		}
		values[i].Style = chart.Style{FillColor: fill, StrokeColor: fill}
	}
	lo, hi := valueRange(ys)
	barWidth := (chartWidth - 120) / (len(values) * 2)
	if barWidth > 60 {
		barWidth = 60
	}

	bars := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: revenueFormatter,
		},
		Bars: values,
	}
	return bars.Render(chart.PNG, out)
}

func groupValues(groups []model.GroupTotal) []chart.Value {
	values := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		values = append(values, chart.Value{Label: cli.Label(g.Key), Value: g.Revenue})
	}
	return values
}

// valueRange returns an axis range that always includes zero and never
// collapses to a single value.
func valueRange(values []float64) (lo, hi float64) {
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo == 0 {
		hi = lo + 1
	}
	return lo, hi
}

func revenueFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return cli.FormatRevenue(f)
	}
	return ""
}
