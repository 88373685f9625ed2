package models

// LinkCounts is the per-property output aggregate. Constructed fresh per
// request; never persisted.
type LinkCounts struct {
	Wells     int `json:"wells"`
	Documents int `json:"documents"`
	Filings   int `json:"filings"`
}
