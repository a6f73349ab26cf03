// Package geo fetches US county boundaries and reduces them to named centroids
// for the county revenue map.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/revdash/internal/model"
	"github.com/theirongolddev/revdash/internal/pipeline"
)

const (
	// DefaultURL serves the county outlines keyed by 5-digit FIPS code.
	DefaultURL = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 64 << 20 // 64 MB
)

var (
	// ErrUnavailable indicates boundary data could not be obtained. Only the
	// county map depends on it.
	ErrUnavailable = errors.New("geo: boundary data unavailable")
	// ErrNotFound indicates the boundary URL returned 404.
	ErrNotFound = errors.New("geo: boundary document not found")
)

// Client downloads a county GeoJSON document.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for url. Returns nil if url is empty or not
// an http(s) URL.
func NewClient(url string, timeout time.Duration) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:     url,
		timeout: timeout,
		http:    &http.Client{},
	}
}

// URL returns the document location.
func (c *Client) URL() string {
	return c.url
}

// FetchCounties downloads the document and returns one centroid per county,
// sorted by FIPS. Features with a bad code or geometry are skipped.
func (c *Client) FetchCounties(ctx context.Context) ([]model.County, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}

	var fc FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("geo: parsing boundaries: %w", err)
	}
	return Centroids(fc), nil
}

// Centroids reduces a feature collection to county centroids sorted by FIPS.
func Centroids(fc FeatureCollection) []model.County {
	counties := make([]model.County, 0, len(fc.Features))
	for _, f := range fc.Features {
		code, ok := pipeline.NormalizeFIPS(f.fips())
		if !ok {
			continue
		}
		lon, lat, err := centroid(f.Geometry)
		if err != nil {
			continue
		}
		stateFIPS := f.Properties.State
		if stateFIPS == "" && len(code) >= 2 {
			stateFIPS = code[:2]
		}
		counties = append(counties, model.County{
			FIPS:      code,
			Name:      f.Properties.Name,
			StateFIPS: stateFIPS,
			Lon:       lon,
			Lat:       lat,
		})
	}
	sort.Slice(counties, func(i, j int) bool {
		return counties[i].FIPS < counties[j].FIPS
	})
	return counties
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("geo: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/revdash/1.0")

	//nolint:gosec // URL comes from user configuration
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geo: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("geo: reading response: %w", err)
	}
	return body, nil
}
