// Package model defines the revenue record schema and the summary types
// derived from it.
package model

// Sentinel labels substituted for missing categorical values at load time.
const (
	UnknownState       = "Unknown"
	UnknownCounty      = "Unknown"
	UnspecifiedProduct = "Not Specified"
)

// Source column names, exactly as they appear in the CSV header.
const (
	ColFiscalYear  = "Fiscal Year"
	ColState       = "State"
	ColCounty      = "County"
	ColProduct     = "Product"
	ColLandClass   = "Land Class"
	ColRevenueType = "Revenue Type"
	ColCommodity   = "Commodity"
	ColRevenue     = "Revenue"
	ColFIPS        = "FIPS Code"
)

// Columns lists every required column in canonical order.
var Columns = []string{
	ColFiscalYear,
	ColState,
	ColCounty,
	ColProduct,
	ColLandClass,
	ColRevenueType,
	ColCommodity,
	ColRevenue,
	ColFIPS,
}

// Record is one row of the revenue table after sentinel filling.
type Record struct {
	FiscalYear  int     `json:"fiscal_year"`
	State       string  `json:"state"`
	County      string  `json:"county"`
	Product     string  `json:"product"`
	LandClass   string  `json:"land_class"`
	RevenueType string  `json:"revenue_type"`
	Commodity   string  `json:"commodity"`
	Revenue     float64 `json:"revenue"`
	FIPS        string  `json:"fips,omitempty"` // raw code text, empty when absent
}

// HasUnknowns reports whether any sentinel-filled field is set on the record.
func (r Record) HasUnknowns() bool {
	return r.State == UnknownState ||
		r.County == UnknownCounty ||
		r.Product == UnspecifiedProduct
}
