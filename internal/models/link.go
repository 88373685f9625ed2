package models

// Link statuses. Rejected links are soft-deleted and never counted.
const (
	LinkStatusActive   = "active"
	LinkStatusRejected = "rejected"
)

// WellLink ties a property to a well. The write path is external; this
// service only reads active links. PropertyID and WellID are the externally
// stable identifiers (the repository translates replica-local foreign keys
// before a row leaves it).
type WellLink struct {
	ID         string `json:"id"`
	PropertyID string `json:"propertyId"`
	WellID     string `json:"wellId"`
	Status     string `json:"status"`
}

// DocumentLink ties a property to a case document.
type DocumentLink struct {
	ID         string `json:"id"`
	PropertyID string `json:"propertyId"`
	DocumentID string `json:"documentId"`
	Status     string `json:"status"`
}
