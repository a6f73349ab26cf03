package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var errEmptyGeometry = errors.New("geo: empty geometry")

// centroid returns the area-weighted centroid of the largest polygon in g.
// Holes are ignored; county outlines rarely have meaningful ones.
func centroid(g Geometry) (lon, lat float64, err error) {
	var polygons [][]ring
	switch g.Type {
	case "Polygon":
		var p []ring
		if err := json.Unmarshal(g.Coordinates, &p); err != nil {
			return 0, 0, fmt.Errorf("geo: decoding polygon: %w", err)
		}
		polygons = [][]ring{p}
	case "MultiPolygon":
		if err := json.Unmarshal(g.Coordinates, &polygons); err != nil {
			return 0, 0, fmt.Errorf("geo: decoding multipolygon: %w", err)
		}
	default:
		return 0, 0, fmt.Errorf("geo: unsupported geometry %q", g.Type)
	}

	var best ring
	bestArea := -1.0
	for _, p := range polygons {
		if len(p) == 0 {
			continue
		}
		a := math.Abs(signedArea(p[0]))
		if a > bestArea {
			best, bestArea = p[0], a
		}
	}
	if len(best) == 0 {
		return 0, 0, errEmptyGeometry
	}

	lon, lat = ringCentroid(best)
	return lon, lat, nil
}

// signedArea is the shoelace area of r in degree units.
func signedArea(r ring) float64 {
	var sum float64
	for i := range r {
		j := (i + 1) % len(r)
		sum += r[i][0]*r[j][1] - r[j][0]*r[i][1]
	}
	return sum / 2
}

// ringCentroid falls back to the vertex mean for degenerate rings.
func ringCentroid(r ring) (float64, float64) {
	a := signedArea(r)
	if math.Abs(a) < 1e-12 {
		var x, y float64
		for _, p := range r {
			x += p[0]
			y += p[1]
		}
		n := float64(len(r))
		return x / n, y / n
	}

	var cx, cy float64
	for i := range r {
		j := (i + 1) % len(r)
		cross := r[i][0]*r[j][1] - r[j][0]*r[i][1]
		cx += (r[i][0] + r[j][0]) * cross
		cy += (r[i][1] + r[j][1]) * cross
	}
	return cx / (6 * a), cy / (6 * a)
}
