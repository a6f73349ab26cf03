package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/store"
)

func syntheticRecords(n int) []model.Record {
	states := []string{"TX", "WY", "NM", "CO", model.UnknownState}
	commodities := []string{"Oil", "Gas", "Coal", "Wind"}
	records := make([]model.Record, n)
	for i := range records {
		records[i] = model.Record{
			FiscalYear:  2005 + i%15,
			State:       states[i%len(states)],
			County:      fmt.Sprintf("County %d", i%300),
			Product:     "Oil",
			LandClass:   []string{"Federal", "Native American"}[i%2],
			RevenueType: []string{"Royalties", "Rents", "Bonus"}[i%3],
			Commodity:   commodities[i%len(commodities)],
			Revenue:     float64(i%5000) - 100,
			FIPS:        fmt.Sprintf("%d", 1001+i%3000),
		}
	}
	return records
}

func writeSyntheticCSV(b *testing.B, n int) string {
	b.Helper()
	var sb strings.Builder
	sb.WriteString(strings.Join(model.Columns, ",") + "\n")
	for _, r := range syntheticRecords(n) {
		fmt.Fprintf(&sb, "%d,%s,%s,%s,%s,%s,%s,%.2f,%s\n",
			r.FiscalYear, r.State, r.County, r.Product, r.LandClass,
			r.RevenueType, r.Commodity, r.Revenue, r.FIPS)
	}
	path := filepath.Join(b.TempDir(), "revenue.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkFilter(b *testing.B) {
	records := syntheticRecords(50000)
	cfg := DefaultFilter(ObservedBounds(records))
	cfg.YearMin = 2010

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Filter(records, cfg)
	}
}

func BenchmarkRender(b *testing.B) {
	snap := NewSnapshot(syntheticRecords(50000), "bench")
	cfg := snap.DefaultFilter()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = snap.Render(cfg)
	}
}

func BenchmarkLoad(b *testing.B) {
	path := writeSyntheticCSV(b, 20000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(path, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	path := writeSyntheticCSV(b, 20000)

	cache, err := store.Open(filepath.Join(b.TempDir(), "metrics.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := LoadWithCache(path, cache, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cr
	}
}
