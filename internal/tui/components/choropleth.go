package components

import (
	"math"
	"strings"

	"github.com/theirongolddev/revdash/internal/cli"
	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// MapPoint is a county centroid carrying its revenue.
type MapPoint struct {
	Lon, Lat float64
	Value    float64
}

// MapBounds is the lon/lat box projected onto the map area.
type MapBounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Choropleth draws points on a width x height character grid. Each character
// holds two vertically stacked cells drawn with a half block, so the grid is
// width x 2*height cells. Values of points sharing a cell are summed. Colors
// come from the Viridis scale fit to PointRange, so a cell holding several
// large counties saturates at the top color.
// The projection is equirectangular, scaled by the cosine of the middle
// latitude and centered in the grid.
func Choropleth(points []MapPoint, bounds MapBounds, width, height int) string {
	t := theme.Active
	if len(points) == 0 || width < 4 || height < 2 {
		return EmptyBody()
	}

	cellsH := height * 2
	grid := make([][]float64, cellsH)
	filled := make([][]bool, cellsH)
	for y := range grid {
		grid[y] = make([]float64, width)
		filled[y] = make([]bool, width)
	}

	project := projection(bounds, width, cellsH)
	for _, p := range points {
		x, y := project(p.Lon, p.Lat)
		if x < 0 || x >= width || y < 0 || y >= cellsH {
			continue
		}
		grid[y][x] += p.Value
		filled[y][x] = true
	}

	lo, hi := PointRange(points)
	scale := func(v float64) lipgloss.Color {
		if hi == lo {
			return theme.Viridis(1)
		}
		return theme.Viridis((v - lo) / (hi - lo))
	}

	blank := lipgloss.NewStyle().Background(t.Surface)
	var b strings.Builder
	for row := 0; row < height; row++ {
		top, bottom := row*2, row*2+1
		for x := 0; x < width; x++ {
			topOn, botOn := filled[top][x], filled[bottom][x]
			switch {
			case topOn && botOn:
				b.WriteString(lipgloss.NewStyle().
					Foreground(scale(grid[top][x])).
					Background(scale(grid[bottom][x])).
					Render("▀"))
			case topOn:
				b.WriteString(lipgloss.NewStyle().
					Foreground(scale(grid[top][x])).
					Background(t.Surface).
					Render("▀"))
			case botOn:
				b.WriteString(lipgloss.NewStyle().
					Foreground(scale(grid[bottom][x])).
					Background(t.Surface).
					Render("▄"))
			default:
				b.WriteString(blank.Render(" "))
			}
		}
		if row < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PointRange returns the smallest and largest point value.
func PointRange(points []MapPoint) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi
}

// projection returns a function mapping lon/lat to grid cells.
func projection(bounds MapBounds, width, height int) func(lon, lat float64) (int, int) {
	midLat := (bounds.MinLat + bounds.MaxLat) / 2
	kx := math.Cos(midLat * math.Pi / 180)
	if kx < 0.1 {
		kx = 0.1
	}

	spanX := (bounds.MaxLon - bounds.MinLon) * kx
	spanY := bounds.MaxLat - bounds.MinLat
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	s := math.Min(float64(width-1)/spanX, float64(height-1)/spanY)
	offX := (float64(width-1) - spanX*s) / 2
	offY := (float64(height-1) - spanY*s) / 2

	return func(lon, lat float64) (int, int) {
		x := offX + (lon-bounds.MinLon)*kx*s
		y := offY + (bounds.MaxLat-lat)*s
		return int(math.Round(x)), int(math.Round(y))
	}
}

// ViridisLegend renders a horizontal color ramp labelled with its end values.
func ViridisLegend(lo, hi float64, width int) string {
	t := theme.Active
	loLabel, hiLabel := cli.FormatRevenue(lo), cli.FormatRevenue(hi)
	rampW := width - len(loLabel) - len(hiLabel) - 2
	if rampW < 4 {
		rampW = 4
	}

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var b strings.Builder
	b.WriteString(label.Render(loLabel + " "))
	for i := 0; i < rampW; i++ {
		frac := float64(i) / float64(rampW-1)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Viridis(frac)).Background(t.Surface).Render("█"))
	}
	b.WriteString(label.Render(" " + hiLabel))
	return b.String()
}
