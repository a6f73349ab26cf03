package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

func testSnapshot() *pipeline.Snapshot {
	return pipeline.NewSnapshot([]model.Record{
		{FiscalYear: 2015, State: "TX", County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 100, FIPS: "48201"},
		{FiscalYear: 2015, State: model.UnknownState, County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 50, FIPS: "48201"},
		{FiscalYear: 2016, State: "WY", County: "Campbell", Product: "Coal", LandClass: "Native American",
			RevenueType: "Rents", Commodity: "Coal", Revenue: 300, FIPS: "56005"},
		{FiscalYear: 2017, State: "NM", County: "Eddy", Product: "Gas", LandClass: "Federal",
			RevenueType: "Other", Commodity: "Gas", Revenue: -20, FIPS: "abc"},
	}, "revenue.csv")
}

var pngMagic = []byte("\x89PNG")

func TestRenderChart_AllKinds(t *testing.T) {
	snap := testSnapshot()
	p := snap.RenderView(snap.DefaultFilter(), pipeline.ViewWith)

	for _, name := range Charts {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderChart(&buf, p, name); err != nil {
				t.Fatalf("RenderChart(%s): %v", name, err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Errorf("%s: output is not a PNG", name)
			}
		})
	}
}

func TestRenderChart_SingleYear(t *testing.T) {
	snap := testSnapshot()
	cfg := snap.DefaultFilter()
	cfg.YearMin, cfg.YearMax = 2016, 2016
	p := snap.RenderView(cfg, pipeline.ViewWith)

	var buf bytes.Buffer
	if err := RenderChart(&buf, p, ChartYears); err != nil {
		t.Fatalf("single-year line chart: %v", err)
	}
}

func TestRenderChart_Empty(t *testing.T) {
	snap := testSnapshot()
	cfg := snap.DefaultFilter()
	cfg.Commodities = pipeline.NewStringSet()
	p := snap.RenderView(cfg, pipeline.ViewWith)

	for _, name := range Charts {
		if err := RenderChart(&bytes.Buffer{}, p, name); !errors.Is(err, ErrEmptyChart) {
			t.Errorf("%s: err = %v, want ErrEmptyChart", name, err)
		}
	}
	if err := RenderChart(&bytes.Buffer{}, p, "pie"); err == nil || errors.Is(err, ErrEmptyChart) {
		t.Errorf("unknown chart: err = %v", err)
	}
}

func TestRenderChart_NegativeOnlyPie(t *testing.T) {
	snap := testSnapshot()
	cfg := snap.DefaultFilter()
	cfg.Commodities = pipeline.NewStringSet("Gas")
	p := snap.RenderView(cfg, pipeline.ViewWith)

	if err := RenderChart(&bytes.Buffer{}, p, ChartLandClasses); !errors.Is(err, ErrEmptyChart) {
		t.Errorf("negative-only pie: err = %v, want ErrEmptyChart", err)
	}
	var buf bytes.Buffer
	if err := RenderChart(&buf, p, ChartStates); err != nil {
		t.Errorf("negative-only bars: %v", err)
	}
}

func TestWriteCharts(t *testing.T) {
	snap := testSnapshot()
	cfg := snap.DefaultFilter()
	vm := snap.Render(cfg)

	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteCharts(dir, &vm)
	if err != nil {
		t.Fatalf("WriteCharts: %v", err)
	}
	if len(paths) != 2*len(Charts) {
		t.Errorf("wrote %d charts, want %d", len(paths), 2*len(Charts))
	}
	if _, err := os.Stat(filepath.Join(dir, "without-states.png")); err != nil {
		t.Errorf("without-states.png: %v", err)
	}

	cfg.RevenueMin, cfg.RevenueMax = 1e9, 2e9
	empty := snap.Render(cfg)
	paths, err = WriteCharts(t.TempDir(), &empty)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("empty view wrote %v", paths)
	}
}

func TestSaveXLSX(t *testing.T) {
	snap := testSnapshot()
	vm := snap.Render(snap.DefaultFilter())
	vm.WithUnknowns.AttachCountyNames(map[string]model.County{"48201": {FIPS: "48201", Name: "Harris"}})

	path := filepath.Join(t.TempDir(), "revenue.xlsx")
	if err := SaveXLSX(path, &vm, Meta{Source: snap.Source, LoadedAt: time.Now()}); err != nil {
		t.Fatalf("SaveXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 13 || sheets[0] != "Summary" {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows("With Rows")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Errorf("With Rows has %d rows, want header + 4", len(rows))
	}
	rows, err = f.GetRows("Without Rows")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Errorf("Without Rows has %d rows, want header + 3", len(rows))
	}

	total, err := f.GetCellValue("Summary", "B13", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if total != "430" {
		t.Errorf("total revenue cell = %q, want 430", total)
	}

	top, err := f.GetCellValue("With States", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if top != "WY" {
		t.Errorf("top state = %q, want WY", top)
	}
	name, _ := f.GetCellValue("With Counties", "B3")
	if name != "Harris" {
		t.Errorf("county name = %q, want Harris", name)
	}
}

func TestWriteXLSX_EmptyView(t *testing.T) {
	snap := testSnapshot()
	cfg := snap.DefaultFilter()
	cfg.LandClasses = nil
	vm := snap.Render(cfg)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, &vm, Meta{}); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook")
	}
}
