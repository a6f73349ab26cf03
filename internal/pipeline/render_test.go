package pipeline

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/revdash/internal/model"
)

func TestRender_UnknownStateExample(t *testing.T) {
	snap := NewSnapshot([]model.Record{
		{FiscalYear: 2015, State: "TX", County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 100},
		{FiscalYear: 2015, State: model.UnknownState, County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 50},
	}, "test.csv")

	cfg := snap.DefaultFilter()
	cfg.YearMin, cfg.YearMax = 2015, 2015
	vm := snap.Render(cfg)

	if got := vm.WithUnknowns.Summary.TotalRevenue; got != 150 {
		t.Errorf("with unknowns = %v, want 150", got)
	}
	if got := vm.WithoutUnknowns.Summary.TotalRevenue; got != 100 {
		t.Errorf("without unknowns = %v, want 100", got)
	}
	if vm.Panel(ViewWithout).Title != "Without Unknowns" {
		t.Errorf("title = %q", vm.Panel(ViewWithout).Title)
	}
}

func TestRender_EmptyInterval(t *testing.T) {
	snap := NewSnapshot(sampleRecords(), "test.csv")
	cfg := snap.DefaultFilter()
	cfg.RevenueMin, cfg.RevenueMax = 10000, 20000

	vm := snap.Render(cfg)
	for _, p := range []Panel{vm.WithUnknowns, vm.WithoutUnknowns} {
		if !p.Empty() || len(p.Rows) != 0 {
			t.Errorf("%s: %d rows, want 0", p.Title, len(p.Rows))
		}
		if len(p.ByYear)+len(p.ByLandClass)+len(p.ByState)+len(p.ByCommodity)+len(p.ByCounty) != 0 {
			t.Errorf("%s: non-empty groupings for an empty selection", p.Title)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	snap := NewSnapshot(sampleRecords(), "test.csv")
	cfg := snap.DefaultFilter()
	cfg.LandClasses = NewStringSet("Federal")

	a := snap.Render(cfg)
	b := snap.Render(cfg.Clone())
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs rendered different view models")
	}
}

func TestSnapshot_DefaultFilterCoversKnownView(t *testing.T) {
	snap := NewSnapshot(sampleRecords(), "test.csv")
	vm := snap.Render(snap.DefaultFilter())
	if vm.WithUnknowns.Summary.Rows != len(snap.All) {
		t.Errorf("with rows = %d, want %d", vm.WithUnknowns.Summary.Rows, len(snap.All))
	}
	if vm.WithoutUnknowns.Summary.Rows != len(snap.Known) {
		t.Errorf("without rows = %d, want %d", vm.WithoutUnknowns.Summary.Rows, len(snap.Known))
	}
}

func TestPanel_AttachCountyNames(t *testing.T) {
	snap := NewSnapshot(sampleRecords(), "test.csv")
	p := snap.RenderView(snap.DefaultFilter(), ViewWith)
	p.AttachCountyNames(map[string]model.County{
		"48201": {FIPS: "48201", Name: "Harris"},
	})
	for _, c := range p.ByCounty {
		switch c.FIPS {
		case "48201":
			if c.Name != "Harris" {
				t.Errorf("48201 name = %q", c.Name)
			}
		default:
			if c.Name != "" {
				t.Errorf("%s got name %q", c.FIPS, c.Name)
			}
		}
	}
	if got := p.ChartTitle("Revenue by State"); got != "Revenue by State (With Unknowns)" {
		t.Errorf("ChartTitle = %q", got)
	}
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"": ViewWith, "with": ViewWith, "WITHOUT": ViewWithout, "known": ViewWithout} {
		got, err := ParseView(in)
		if err != nil || got != want {
			t.Errorf("ParseView(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseView("both"); err == nil {
		t.Error("ParseView(both) should fail")
	}
}
