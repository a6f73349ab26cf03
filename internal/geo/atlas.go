package geo

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/store"
)

// Atlas is a set of county centroids keyed by FIPS.
type Atlas struct {
	Counties  map[string]model.County
	FetchedAt time.Time
	FromCache bool
	// Stale is set when a fetch failed and an expired cache entry was used.
	Stale bool
	Err   error
}

// NewAtlas indexes counties by code.
func NewAtlas(counties []model.County, fetchedAt time.Time) *Atlas {
	idx := make(map[string]model.County, len(counties))
	for _, c := range counties {
		idx[c.FIPS] = c
	}
	return &Atlas{Counties: idx, FetchedAt: fetchedAt}
}

// Len returns the number of counties.
func (a *Atlas) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Counties)
}

// Lookup returns the county for a normalized code.
func (a *Atlas) Lookup(fips string) (model.County, bool) {
	if a == nil {
		return model.County{}, false
	}
	c, ok := a.Counties[fips]
	return c, ok
}

// Extent returns the lon/lat bounding box of the listed codes, or of every
// county when codes is empty. ok is false when none of them are known.
func (a *Atlas) Extent(codes ...string) (minLon, minLat, maxLon, maxLat float64, ok bool) {
	minLon, minLat = math.Inf(1), math.Inf(1)
	maxLon, maxLat = math.Inf(-1), math.Inf(-1)

	grow := func(c model.County) {
		minLon = math.Min(minLon, c.Lon)
		maxLon = math.Max(maxLon, c.Lon)
		minLat = math.Min(minLat, c.Lat)
		maxLat = math.Max(maxLat, c.Lat)
		ok = true
	}

	if a == nil {
		return 0, 0, 0, 0, false
	}
	if len(codes) == 0 {
		for _, c := range a.Counties {
			grow(c)
		}
	} else {
		for _, code := range codes {
			if c, found := a.Counties[code]; found {
				grow(c)
			}
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return minLon, minLat, maxLon, maxLat, true
}

// Load returns county centroids, preferring a cache entry younger than maxAge.
// On a failed fetch an expired entry is still returned, marked Stale. When
// neither source works the error wraps ErrUnavailable. cache may be nil.
func Load(ctx context.Context, client *Client, cache *store.Cache, maxAge time.Duration) (*Atlas, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: no boundary URL configured", ErrUnavailable)
	}

	var cached []model.County
	var fetchedAt time.Time
	if cache != nil {
		var err error
		cached, fetchedAt, err = cache.LoadCounties(client.URL())
		if err != nil {
			cached = nil
		}
		if len(cached) > 0 && time.Since(fetchedAt) < maxAge {
			atlas := NewAtlas(cached, fetchedAt)
			atlas.FromCache = true
			return atlas, nil
		}
	}

	counties, err := client.FetchCounties(ctx)
	if err == nil && len(counties) == 0 {
		err = fmt.Errorf("geo: no usable features at %s", client.URL())
	}
	if err != nil {
		if len(cached) > 0 {
			atlas := NewAtlas(cached, fetchedAt)
			atlas.FromCache = true
			atlas.Stale = true
			atlas.Err = err
			return atlas, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	atlas := NewAtlas(counties, time.Now())
	if cache != nil {
		if err := cache.SaveCounties(client.URL(), counties); err != nil {
			atlas.Err = fmt.Errorf("caching boundaries: %w", err)
		}
	}
	return atlas, nil
}
