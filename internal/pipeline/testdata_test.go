package pipeline

import "github.com/theirongolddev/revdash/internal/model"

// sampleRecords is a small mixed table: two rows carry sentinels, one has
// a malformed FIPS code and one has none.
func sampleRecords() []model.Record {
	return []model.Record{
		{FiscalYear: 2015, State: "TX", County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 100, FIPS: "48201"},
		{FiscalYear: 2015, State: model.UnknownState, County: "Harris", Product: "Oil", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Oil", Revenue: 50, FIPS: "48201"},
		{FiscalYear: 2016, State: "WY", County: "Campbell", Product: "Coal", LandClass: "Federal",
			RevenueType: "Rents", Commodity: "Coal", Revenue: 300, FIPS: "56005"},
		{FiscalYear: 2017, State: "AL", County: "Autauga", Product: model.UnspecifiedProduct, LandClass: "Native American",
			RevenueType: "Bonus", Commodity: "Gas", Revenue: 25, FIPS: "1001"},
		{FiscalYear: 2018, State: "NM", County: "Eddy", Product: "Gas", LandClass: "Federal",
			RevenueType: "Royalties", Commodity: "Gas", Revenue: 75, FIPS: "abc"},
		{FiscalYear: 2018, State: "NM", County: model.UnknownCounty, Product: "Gas", LandClass: "Federal",
			RevenueType: "Other", Commodity: "Gas", Revenue: -10, FIPS: ""},
	}
}
