package geo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/revdash/internal/store"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "48201",
     "properties": {"GEO_ID": "0500000US48201", "STATE": "48", "COUNTY": "201", "NAME": "Harris", "LSAD": "County"},
     "geometry": {"type": "Polygon", "coordinates": [[[-96,29],[-95,29],[-95,30],[-96,30],[-96,29]]]}},
    {"type": "Feature", "id": 1001,
     "properties": {"STATE": "01", "COUNTY": "001", "NAME": "Autauga"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[-87,32],[-86,32],[-86,33],[-87,33],[-87,32]]],
        [[[-80,20],[-79.9,20],[-79.9,20.1],[-80,20]]]
     ]}},
    {"type": "Feature",
     "properties": {"STATE": "56", "COUNTY": "005", "NAME": "Campbell"},
     "geometry": {"type": "Polygon", "coordinates": [[[-106,44],[-105,44],[-105,45],[-106,45],[-106,44]]]}},
    {"type": "Feature", "id": "bogus",
     "properties": {"NAME": "Nowhere"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}},
    {"type": "Feature", "id": "06037",
     "properties": {"NAME": "Los Angeles"},
     "geometry": {"type": "Point", "coordinates": [-118, 34]}}
  ]
}`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func newGeoServer(t *testing.T, hits *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleGeoJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	for _, url := range []string{"", "   ", "ftp://example.com/x.json", "counties.json"} {
		if NewClient(url, 0) != nil {
			t.Errorf("NewClient(%q) should be nil", url)
		}
	}
	if NewClient(DefaultURL, 0) == nil {
		t.Error("NewClient(DefaultURL) returned nil")
	}
}

func TestFetchCounties(t *testing.T) {
	srv := newGeoServer(t, nil, http.StatusOK)

	counties, err := NewClient(srv.URL, time.Second).FetchCounties(context.Background())
	if err != nil {
		t.Fatalf("FetchCounties: %v", err)
	}
	if len(counties) != 3 {
		t.Fatalf("counties = %+v, want 3", counties)
	}

	// Sorted by FIPS; numeric id padded; missing id rebuilt from properties.
	want := []string{"01001", "48201", "56005"}
	for i, c := range counties {
		if c.FIPS != want[i] {
			t.Errorf("counties[%d].FIPS = %q, want %q", i, c.FIPS, want[i])
		}
	}

	harris := counties[1]
	if harris.Name != "Harris" || harris.StateFIPS != "48" {
		t.Errorf("Harris = %+v", harris)
	}
	if !near(harris.Lon, -95.5) || !near(harris.Lat, 29.5) {
		t.Errorf("Harris centroid = %v,%v, want -95.5,29.5", harris.Lon, harris.Lat)
	}

	// The larger polygon wins for multipolygons.
	if autauga := counties[0]; !near(autauga.Lon, -86.5) || !near(autauga.Lat, 32.5) {
		t.Errorf("Autauga centroid = %v,%v, want -86.5,32.5", autauga.Lon, autauga.Lat)
	}
}

func TestFetchCounties_Status(t *testing.T) {
	srv := newGeoServer(t, nil, http.StatusNotFound)
	_, err := NewClient(srv.URL, time.Second).FetchCounties(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	srv = newGeoServer(t, nil, http.StatusBadGateway)
	if _, err := NewClient(srv.URL, time.Second).FetchCounties(context.Background()); err == nil {
		t.Error("expected an error for 502")
	}
}

func TestLoad_CachesAndDegrades(t *testing.T) {
	var hits atomic.Int32
	srv := newGeoServer(t, &hits, http.StatusOK)

	cache, err := store.Open(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	client := NewClient(srv.URL, time.Second)
	ctx := context.Background()

	atlas, err := Load(ctx, client, cache, time.Hour)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if atlas.FromCache || atlas.Len() != 3 {
		t.Fatalf("first load: FromCache=%v Len=%d", atlas.FromCache, atlas.Len())
	}

	atlas, err = Load(ctx, client, cache, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !atlas.FromCache {
		t.Error("second load did not use the cache")
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}

	// Expired cache plus a dead server: stale data is still served.
	srv.Close()
	atlas, err = Load(ctx, client, cache, 0)
	if err != nil {
		t.Fatalf("stale load: %v", err)
	}
	if !atlas.Stale || atlas.Err == nil {
		t.Errorf("stale load: Stale=%v Err=%v", atlas.Stale, atlas.Err)
	}
}

func TestLoad_Unavailable(t *testing.T) {
	srv := newGeoServer(t, nil, http.StatusInternalServerError)
	_, err := Load(context.Background(), NewClient(srv.URL, time.Second), nil, time.Hour)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if _, err := Load(context.Background(), nil, nil, time.Hour); !errors.Is(err, ErrUnavailable) {
		t.Errorf("nil client: err = %v, want ErrUnavailable", err)
	}
}

func TestAtlas_Extent(t *testing.T) {
	srv := newGeoServer(t, nil, http.StatusOK)
	counties, err := NewClient(srv.URL, time.Second).FetchCounties(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	atlas := NewAtlas(counties, time.Now())

	minLon, minLat, maxLon, maxLat, ok := atlas.Extent("48201", "01001", "99999")
	if !ok {
		t.Fatal("Extent reported no known counties")
	}
	if !near(minLon, -95.5) || !near(maxLon, -86.5) || !near(minLat, 29.5) || !near(maxLat, 32.5) {
		t.Errorf("Extent = %v,%v %v,%v", minLon, minLat, maxLon, maxLat)
	}

	if _, _, _, _, ok := atlas.Extent("99999"); ok {
		t.Error("Extent of unknown codes should not be ok")
	}
	var nilAtlas *Atlas
	if _, ok := nilAtlas.Lookup("48201"); ok || nilAtlas.Len() != 0 {
		t.Error("nil atlas should be empty")
	}
}
