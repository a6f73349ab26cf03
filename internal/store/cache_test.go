package store

import (
	"path/filepath"
	"testing"

	"github.com/theirongolddev/revdash/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "metrics.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_DatasetRoundTrip(t *testing.T) {
	c := openTestCache(t)

	records := []model.Record{
		{FiscalYear: 2015, State: "TX", County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 100, FIPS: "48201"},
		{FiscalYear: 2016, State: model.UnknownState, County: "Harris", Product: "Oil",
			Revenue: -2.5},
	}
	fi := FileInfo{MtimeNs: 42, SizeBytes: 1024, FilledState: 1}

	if err := c.SaveDataset("/data/a.csv", records, fi); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	got, err := c.LoadRecords("/data/a.csv")
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("records = %d, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], records[i])
		}
	}

	tracked, ok, err := c.GetTrackedFile("/data/a.csv")
	if err != nil || !ok {
		t.Fatalf("GetTrackedFile: ok=%v err=%v", ok, err)
	}
	if !tracked.Matches(42, 1024) {
		t.Errorf("tracked = %+v, want mtime 42 size 1024", tracked)
	}
	if tracked.Rows != 2 || tracked.FilledState != 1 {
		t.Errorf("tracked rows/filled = %d/%d, want 2/1", tracked.Rows, tracked.FilledState)
	}
	if tracked.ParsedAt.IsZero() {
		t.Error("ParsedAt not recorded")
	}
}

func TestCache_SaveDatasetReplaces(t *testing.T) {
	c := openTestCache(t)

	first := []model.Record{{FiscalYear: 2010, Revenue: 1}, {FiscalYear: 2011, Revenue: 2}}
	second := []model.Record{{FiscalYear: 2020, Revenue: 9}}

	if err := c.SaveDataset("p", first, FileInfo{MtimeNs: 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset("p", second, FileInfo{MtimeNs: 2}); err != nil {
		t.Fatal(err)
	}

	n, err := c.RecordCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("RecordCount = %d, want 1", n)
	}

	if err := c.DeleteDataset("p"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.GetTrackedFile("p"); ok {
		t.Error("tracker entry survived DeleteDataset")
	}
	all, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("GetTrackedFiles = %v, want empty", all)
	}
}

func TestCache_Counties(t *testing.T) {
	c := openTestCache(t)
	const url = "https://example.test/counties.json"

	counties, fetched, err := c.LoadCounties(url)
	if err != nil {
		t.Fatal(err)
	}
	if counties != nil || !fetched.IsZero() {
		t.Fatalf("empty cache returned %v at %v", counties, fetched)
	}

	want := []model.County{
		{FIPS: "48201", Name: "Harris", StateFIPS: "48", Lon: -95.4, Lat: 29.8},
		{FIPS: "01001", Name: "Autauga", StateFIPS: "01", Lon: -86.6, Lat: 32.5},
	}
	if err := c.SaveCounties(url, want); err != nil {
		t.Fatalf("SaveCounties: %v", err)
	}

	got, fetched, err := c.LoadCounties(url)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.IsZero() {
		t.Error("fetched time not recorded")
	}
	if len(got) != 2 || got[0].FIPS != "01001" || got[1].Name != "Harris" {
		t.Errorf("LoadCounties = %+v", got)
	}
}
