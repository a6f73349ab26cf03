package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/store"
)

const testCSV = `Fiscal Year,State,County,Product,Land Class,Revenue Type,Commodity,Revenue,FIPS Code
2015,TX,Harris,Oil,Federal,Royalties,Oil,100,48201
2015,,Harris,Oil,Federal,Royalties,Oil,50,48201
2016,WY,Campbell,,Federal,Rents,Coal,300,56005
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revenue.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, testCSV)

	result, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := result.Snapshot
	if len(snap.All) != 3 || len(snap.Known) != 1 {
		t.Errorf("views = %d/%d, want 3/1", len(snap.All), len(snap.Known))
	}
	if snap.All[1].State != model.UnknownState {
		t.Errorf("State = %q, want sentinel", snap.All[1].State)
	}
	if result.Filled.Total() != 2 {
		t.Errorf("Filled = %+v, want 2 cells", result.Filled)
	}
	if snap.Bounds.MinYear != 2015 || snap.Bounds.MaxYear != 2016 {
		t.Errorf("Bounds years = %d-%d", snap.Bounds.MinYear, snap.Bounds.MaxYear)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadWithCache(t *testing.T) {
	path := writeCSV(t, testCSV)
	cache, err := store.Open(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.FromCache || first.CacheErr != nil {
		t.Fatalf("first load: FromCache=%v CacheErr=%v", first.FromCache, first.CacheErr)
	}

	second, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.FromCache {
		t.Error("second load did not use the cache")
	}
	if len(second.Snapshot.All) != len(first.Snapshot.All) {
		t.Errorf("cached rows = %d, want %d", len(second.Snapshot.All), len(first.Snapshot.All))
	}
	for i := range first.Snapshot.All {
		if first.Snapshot.All[i] != second.Snapshot.All[i] {
			t.Errorf("cached row %d = %+v, want %+v", i, second.Snapshot.All[i], first.Snapshot.All[i])
		}
	}
	if second.Filled != first.Filled {
		t.Errorf("cached Filled = %+v, want %+v", second.Filled, first.Filled)
	}

	// Touch the file with new content: the cache must be bypassed.
	body := testCSV + "2017,NM,Eddy,Gas,Federal,Royalties,Gas,75,35015\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	third, err := LoadWithCache(path, cache, nil)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.FromCache {
		t.Error("changed file was served from cache")
	}
	if len(third.Snapshot.All) != 4 {
		t.Errorf("rows after change = %d, want 4", len(third.Snapshot.All))
	}
}

func TestLoadWithCache_NilCache(t *testing.T) {
	path := writeCSV(t, testCSV)
	result, err := LoadWithCache(path, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FromCache {
		t.Error("nil cache reported a hit")
	}
}

func TestCachePath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	if got, want := CachePath(), filepath.Join(dir, "revdash", "metrics.db"); got != want {
		t.Errorf("CachePath = %q, want %q", got, want)
	}
}
