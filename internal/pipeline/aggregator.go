// Package pipeline turns loaded revenue records into filtered, aggregated views.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/revdash/internal/model"
)

// Summarize computes the headline numbers for a filtered slice.
func Summarize(records []model.Record) model.Summary {
	var s model.Summary
	states := make(map[string]struct{})
	counties := make(map[string]struct{})
	commodities := make(map[string]struct{})

	for i, r := range records {
		s.Rows++
		s.TotalRevenue += r.Revenue

		if i == 0 || r.FiscalYear < s.MinYear {
			s.MinYear = r.FiscalYear
		}
		if i == 0 || r.FiscalYear > s.MaxYear {
			s.MaxYear = r.FiscalYear
		}

		states[r.State] = struct{}{}
		// County names repeat across states
		counties[r.State+"\x00"+r.County] = struct{}{}
		commodities[r.Commodity] = struct{}{}
	}

	s.States = len(states)
	s.Counties = len(counties)
	s.Commodities = len(commodities)
	return s
}

// AggregateByYear sums revenue per fiscal year, ascending by year.
func AggregateByYear(records []model.Record) []model.YearTotal {
	yearMap := make(map[int]*model.YearTotal)
	for _, r := range records {
		yt, ok := yearMap[r.FiscalYear]
		if !ok {
			yt = &model.YearTotal{Year: r.FiscalYear}
			yearMap[r.FiscalYear] = yt
		}
		yt.Revenue += r.Revenue
		yt.Rows++
	}

	years := make([]model.YearTotal, 0, len(yearMap))
	for _, yt := range yearMap {
		years = append(years, *yt)
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}

// AggregateByLandClass sums revenue per land class.
func AggregateByLandClass(records []model.Record) []model.GroupTotal {
	return aggregateBy(records, func(r model.Record) string { return r.LandClass })
}

// AggregateByState sums revenue per state.
func AggregateByState(records []model.Record) []model.GroupTotal {
	return aggregateBy(records, func(r model.Record) string { return r.State })
}

// AggregateByCommodity sums revenue per commodity.
func AggregateByCommodity(records []model.Record) []model.GroupTotal {
	return aggregateBy(records, func(r model.Record) string { return r.Commodity })
}

// aggregateBy groups records by key, fills in each group's share of the total,
// and sorts by revenue descending with ties broken by key.
func aggregateBy(records []model.Record, key func(model.Record) string) []model.GroupTotal {
	groupMap := make(map[string]*model.GroupTotal)
	var total float64

	for _, r := range records {
		k := key(r)
		g, ok := groupMap[k]
		if !ok {
			g = &model.GroupTotal{Key: k}
			groupMap[k] = g
		}
		g.Revenue += r.Revenue
		g.Rows++
		total += r.Revenue
	}

	groups := make([]model.GroupTotal, 0, len(groupMap))
	for _, g := range groupMap {
		if total != 0 {
			g.Share = g.Revenue / total
		}
		groups = append(groups, *g)
	}
	sortGroups(groups)
	return groups
}

func sortGroups(groups []model.GroupTotal) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Revenue != groups[j].Revenue {
			return groups[i].Revenue > groups[j].Revenue
		}
		return groups[i].Key < groups[j].Key
	})
}

// AggregateByCounty sums revenue per normalized FIPS code. Rows whose code
// cannot be normalized are left out of this summary only. The State of each
// total is the first state name seen for that code.
func AggregateByCounty(records []model.Record) []model.CountyTotal {
	countyMap := make(map[string]*model.CountyTotal)
	for _, r := range records {
		fips, ok := NormalizeFIPS(r.FIPS)
		if !ok {
			continue
		}
		ct, ok := countyMap[fips]
		if !ok {
			ct = &model.CountyTotal{FIPS: fips, State: r.State}
			countyMap[fips] = ct
		}
		ct.Revenue += r.Revenue
		ct.Rows++
	}

	counties := make([]model.CountyTotal, 0, len(countyMap))
	for _, ct := range countyMap {
		counties = append(counties, *ct)
	}
	sort.Slice(counties, func(i, j int) bool {
		if counties[i].Revenue != counties[j].Revenue {
			return counties[i].Revenue > counties[j].Revenue
		}
		return counties[i].FIPS < counties[j].FIPS
	})
	return counties
}

// ObservedBounds scans records for the extent used to seed the default filter.
// Distinct category values are returned sorted.
func ObservedBounds(records []model.Record) model.Bounds {
	var b model.Bounds
	landClasses := NewStringSet()
	revenueTypes := NewStringSet()
	commodities := NewStringSet()

	for i, r := range records {
		if i == 0 || r.FiscalYear < b.MinYear {
			b.MinYear = r.FiscalYear
		}
		if i == 0 || r.FiscalYear > b.MaxYear {
			b.MaxYear = r.FiscalYear
		}
		if i == 0 || r.Revenue < b.MinRevenue {
			b.MinRevenue = r.Revenue
		}
		if i == 0 || r.Revenue > b.MaxRevenue {
			b.MaxRevenue = r.Revenue
		}
		landClasses.Add(r.LandClass)
		revenueTypes.Add(r.RevenueType)
		commodities.Add(r.Commodity)
	}

	b.LandClasses = landClasses.Sorted()
	b.RevenueTypes = revenueTypes.Sorted()
	b.Commodities = commodities.Sorted()
	return b
}
