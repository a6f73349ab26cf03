package pipeline

import "github.com/theirongolddev/revdash/internal/model"

// FilterConfig is the conjunction of range and membership predicates applied
// to a dataset view. Ranges are inclusive on both ends.
type FilterConfig struct {
	YearMin      int       `json:"year_min"`
	YearMax      int       `json:"year_max"`
	RevenueMin   float64   `json:"revenue_min"`
	RevenueMax   float64   `json:"revenue_max"`
	LandClasses  StringSet `json:"land_classes"`
	RevenueTypes StringSet `json:"revenue_types"`
	Commodities  StringSet `json:"commodities"`
}

// DefaultFilter returns the configuration that keeps every observed row:
// the full year and revenue ranges and every distinct category value.
func DefaultFilter(b model.Bounds) FilterConfig {
	return FilterConfig{
		YearMin:      b.MinYear,
		YearMax:      b.MaxYear,
		RevenueMin:   b.MinRevenue,
		RevenueMax:   b.MaxRevenue,
		LandClasses:  NewStringSet(b.LandClasses...),
		RevenueTypes: NewStringSet(b.RevenueTypes...),
		Commodities:  NewStringSet(b.Commodities...),
	}
}

// Clone returns a deep copy so callers can edit sets without touching cfg.
func (cfg FilterConfig) Clone() FilterConfig {
	out := cfg
	out.LandClasses = cfg.LandClasses.Clone()
	out.RevenueTypes = cfg.RevenueTypes.Clone()
	out.Commodities = cfg.Commodities.Clone()
	return out
}

// Matches reports whether r satisfies every predicate.
func (cfg FilterConfig) Matches(r model.Record) bool {
	return r.FiscalYear >= cfg.YearMin && r.FiscalYear <= cfg.YearMax &&
		r.Revenue >= cfg.RevenueMin && r.Revenue <= cfg.RevenueMax &&
		cfg.LandClasses.Has(r.LandClass) &&
		cfg.RevenueTypes.Has(r.RevenueType) &&
		cfg.Commodities.Has(r.Commodity)
}

// Filter returns the records matching cfg in their original order.
// The input slice is never modified.
func Filter(records []model.Record, cfg FilterConfig) []model.Record {
	if cfg.LandClasses.Len() == 0 || cfg.RevenueTypes.Len() == 0 || cfg.Commodities.Len() == 0 {
		return []model.Record{}
	}

	result := make([]model.Record, 0, len(records))
	for _, r := range records {
		if cfg.Matches(r) {
			result = append(result, r)
		}
	}
	return result
}
