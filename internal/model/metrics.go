package model

// Bounds holds the observed extent of a loaded table. It seeds the default
// filter and the slider limits.
type Bounds struct {
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
	MinRevenue   float64  `json:"min_revenue"`
	MaxRevenue   float64  `json:"max_revenue"`
	LandClasses  []string `json:"land_classes"`
	RevenueTypes []string `json:"revenue_types"`
	Commodities  []string `json:"commodities"`
}

// Summary holds the headline numbers for one filtered view.
type Summary struct {
	Rows         int     `json:"rows"`
	TotalRevenue float64 `json:"total_revenue"`
	MinYear      int     `json:"min_year,omitempty"`
	MaxYear      int     `json:"max_year,omitempty"`
	States       int     `json:"states"`
	Counties     int     `json:"counties"`
	Commodities  int     `json:"commodities"`
}

// YearTotal is revenue summed over one fiscal year.
type YearTotal struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	Rows    int     `json:"rows"`
}

// GroupTotal is revenue summed over one categorical key.
type GroupTotal struct {
	Key     string  `json:"key"`
	Revenue float64 `json:"revenue"`
	Rows    int     `json:"rows"`
	Share   float64 `json:"share"` // Revenue / group total, 0 when the total is 0
}

// CountyTotal is revenue summed over one normalized FIPS code.
type CountyTotal struct {
	FIPS    string  `json:"fips"`
	Name    string  `json:"name,omitempty"`
	State   string  `json:"state,omitempty"`
	Revenue float64 `json:"revenue"`
	Rows    int     `json:"rows"`
}
