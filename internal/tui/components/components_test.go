package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	want := []int{4, 3, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(10, 3) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"abc", 5, "abc"},
		{"Oil & Gas", 5, "Oil …"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.5, "0.50"},
		{1500, "1.5k"},
		{2e6, "2M"},
		{-3000, "-3k"},
		{4.3e9, "4.3B"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLineChart_PlotsEveryPoint(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := LineChart([]float64{10, 40, 25}, []string{"2015", "2016", "2017"}, theme.Active.Accent, 50, 6)
	if got := strings.Count(out, "●"); got != 3 {
		t.Errorf("points drawn = %d, want 3", got)
	}
	// plot rows + axis + x labels
	if got := len(strings.Split(out, "\n")); got != 8 {
		t.Errorf("lines = %d, want 8", got)
	}
	if !strings.Contains(out, "2016") {
		t.Error("missing X label 2016")
	}

	if got := LineChart(nil, nil, theme.Active.Accent, 50, 6); got != "" {
		t.Errorf("empty LineChart = %q, want empty", got)
	}
}

func TestHBarChart_LinesFillWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	items := []BarItem{
		{Label: "Wyoming", Value: 3e9},
		{Label: "New Mexico", Value: 1.2e9},
		{Label: "Unknown", Value: -5e6},
	}
	out := HBarChart(items, theme.Active.Blue, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != len(items) {
		t.Fatalf("lines = %d, want %d", len(lines), len(items))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line %d width = %d, want 60", i, w)
		}
	}
}

func TestShareBars(t *testing.T) {
	theme.SetActive("flexoki-dark")

	items := []ShareItem{
		{Label: "Federal", Revenue: 750, Share: 0.75},
		{Label: "Native American", Revenue: 250, Share: 0.25},
	}
	out := ShareBars(items, 70)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Federal") || !strings.Contains(lines[1], "Native American") {
		t.Errorf("labels missing:\n%s", out)
	}
	if ShareBars(nil, 70) != "" {
		t.Error("ShareBars(nil) should be empty")
	}
}

func TestChoropleth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bounds := MapBounds{MinLon: -110, MinLat: 30, MaxLon: -90, MaxLat: 45}

	if out := Choropleth(nil, bounds, 40, 10); !strings.Contains(out, EmptyMessage) {
		t.Errorf("empty map = %q, want placeholder", out)
	}

	points := []MapPoint{
		{Lon: -105.5, Lat: 44.2, Value: 300},
		{Lon: -95.4, Lat: 30.5, Value: 100},
	}
	out := Choropleth(points, bounds, 40, 10)
	if got := len(strings.Split(out, "\n")); got != 10 {
		t.Errorf("map rows = %d, want 10", got)
	}
	if got := strings.Count(out, "▀") + strings.Count(out, "▄"); got != 2 {
		t.Errorf("filled characters = %d, want 2", got)
	}
}

func TestProjection_CornersInsideGrid(t *testing.T) {
	project := projection(MapBounds{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}, 20, 10)

	x0, y0 := project(0, 10)
	x1, y1 := project(10, 0)
	if y0 != 0 || y1 != 9 {
		t.Errorf("rows = %d, %d, want 0 and 9", y0, y1)
	}
	if x0 < 0 || x1 >= 20 || x0 >= x1 {
		t.Errorf("columns = %d, %d, want ordered inside [0, 20)", x0, x1)
	}
}

func TestTabs(t *testing.T) {
	if got := TabIdxByKey('w'); got != 1 {
		t.Errorf("TabIdxByKey('w') = %d, want 1", got)
	}
	if got := TabIdxByKey('x'); got != -1 {
		t.Errorf("TabIdxByKey('x') = %d, want -1", got)
	}
	for _, tab := range Tabs {
		if w := TabVisualWidth(tab, false); w != len(tab.Name)+2 {
			t.Errorf("%s inactive width = %d, want %d", tab.Name, w, len(tab.Name)+2)
		}
		if w := TabVisualWidth(tab, true); w != len(tab.Name)+2 {
			t.Errorf("%s active width = %d, want %d", tab.Name, w, len(tab.Name)+2)
		}
	}
}
