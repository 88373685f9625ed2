package models

// Property is a monitored mineral-rights parcel. Properties are created by the
// authoritative store's ingestion flow and are read-only here.
//
// ID is the externally stable identifier minted by the authoritative store;
// the replica carries it alongside its own local primary key. Location is nil
// when the property has no STR on record, in which case it contributes zero
// location-based counts but still appears in every result map.
type Property struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	OrgID    string `json:"orgId,omitempty"`
	Location *STR   `json:"location,omitempty"`
}

// Tenant identifies whose portfolio is being aggregated. OrgID is empty for
// individual accounts.
type Tenant struct {
	UserID string
	OrgID  string
}

// CacheKey returns the portfolio cache key for this tenant. Organization
// members share one cached portfolio; individual users get their own.
func (t Tenant) CacheKey() string {
	if t.OrgID != "" {
		return "org:" + t.OrgID
	}
	return "user:" + t.UserID
}
