package geo

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FeatureCollection is the top level of a county boundary GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one county outline.
// The id is usually a string ("01001") but some exports write it as a number.
type Feature struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id"`
	Properties Properties      `json:"properties"`
	Geometry   Geometry        `json:"geometry"`
}

// Properties holds the census attributes attached to each county.
type Properties struct {
	GeoID  string `json:"GEO_ID"`
	State  string `json:"STATE"`
	County string `json:"COUNTY"`
	Name   string `json:"NAME"`
	LSAD   string `json:"LSAD"`
}

// Geometry is a Polygon or MultiPolygon. Coordinates stay raw until the
// type is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// fips returns the feature's county code as text, falling back to the
// STATE+COUNTY properties when the id is absent.
func (f Feature) fips() string {
	if len(f.ID) > 0 {
		var s string
		if err := json.Unmarshal(f.ID, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var n int64
		if err := json.Unmarshal(f.ID, &n); err == nil {
			return strconv.FormatInt(n, 10)
		}
	}
	return f.Properties.State + f.Properties.County
}

type point [2]float64 // lon, lat

type ring []point
