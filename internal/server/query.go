package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/theirongolddev/revdash/internal/pipeline"
)

// parseFilter overlays query parameters on def. Absent parameters keep the
// default; a set parameter given only as an empty value selects nothing.
func parseFilter(q url.Values, def pipeline.FilterConfig) (pipeline.FilterConfig, error) {
	cfg := def.Clone()

	ints := []struct {
		key string
		dst *int
	}{
		{"year_min", &cfg.YearMin},
		{"year_max", &cfg.YearMax},
	}
	for _, p := range ints {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("%s: %q is not an integer", p.key, v)
			}
			*p.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"revenue_min", &cfg.RevenueMin},
		{"revenue_max", &cfg.RevenueMax},
	}
	for _, p := range floats {
		if v := q.Get(p.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return cfg, fmt.Errorf("%s: %q is not a finite number", p.key, v)
			}
			*p.dst = f
		}
	}

	sets := []struct {
		key string
		dst *pipeline.StringSet
	}{
		{"land_class", &cfg.LandClasses},
		{"revenue_type", &cfg.RevenueTypes},
		{"commodity", &cfg.Commodities},
	}
	for _, p := range sets {
		if values, ok := q[p.key]; ok {
			*p.dst = pipeline.ParseSetValues(values)
		}
	}

	return cfg, nil
}
