package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/revdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// TrueColor so background fills show up as ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRow_PadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	empty := ContentCard("Revenue by State", EmptyBody(), 40)
	trend := ContentCard("Revenue Trends Over Time", "2015\n2016\n2017\n2018\n2019", 40)

	emptyH, trendH := lipgloss.Height(empty), lipgloss.Height(trend)
	if emptyH >= trendH {
		t.Fatalf("empty card should be shorter: %d >= %d", emptyH, trendH)
	}

	lines := strings.Split(CardRow([]string{trend, empty}), "\n")
	if len(lines) != trendH {
		t.Fatalf("row height = %d, want %d", len(lines), trendH)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 80 {
			t.Errorf("line %d width = %d, want 80", i, w)
		}
		if i >= emptyH && !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d has no background styling", i)
		}
	}
}

func TestMetricCardRow_FillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	metrics := []Metric{
		{Label: "Total Revenue", Value: "$1.2B", Note: "$1,234,567,890.00"},
		{Label: "Rows", Value: "48,210", Note: "FY 2010-2020"},
		{Label: "States", Value: "38"},
	}
	for _, width := range []int{90, 121, 150} {
		row := MetricCardRow(metrics, width)
		for i, line := range strings.Split(row, "\n") {
			if w := lipgloss.Width(line); w != width {
				t.Errorf("width %d: line %d is %d wide", width, i, w)
			}
		}
		if !strings.Contains(row, "Total Revenue") || !strings.Contains(row, "$1.2B") {
			t.Errorf("width %d: metric text missing", width)
		}
	}
	if MetricCardRow(nil, 80) != "" {
		t.Error("no metrics should render nothing")
	}
}

func TestContentCard_EmptyBody(t *testing.T) {
	theme.SetActive("flexoki-dark")

	card := ContentCard("Revenue by Commodity (Without Unknowns)", EmptyBody(), 60)
	if !strings.Contains(card, EmptyMessage) {
		t.Errorf("card is missing the empty placeholder:\n%s", card)
	}
	if got := CardInnerWidth(60); got != 56 {
		t.Errorf("CardInnerWidth(60) = %d, want 56", got)
	}
	if got := CardInnerWidth(5); got != 10 {
		t.Errorf("CardInnerWidth(5) = %d, want 10", got)
	}
}
