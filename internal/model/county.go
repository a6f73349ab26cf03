package model

// County is one county boundary reduced to what the map needs: its code,
// display name and a representative point.
type County struct {
	FIPS      string  `json:"fips"`
	Name      string  `json:"name"`
	StateFIPS string  `json:"state_fips"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
}
