package models

// Relief types a docket filing can request. The set is fixed by the regulator.
const (
	ReliefPooling           = "pooling"
	ReliefSpacing           = "spacing"
	ReliefIncreasedDensity  = "increased-density"
	ReliefHorizontalWell    = "horizontal-well"
	ReliefLocationException = "location-exception"
	ReliefMultiunitWell     = "multiunit-well"
	ReliefVacatePlug        = "vacate-plug"
)

// AdjacentReliefTypes is the whitelist of relief types that count when a
// filing matches a property only through section adjacency. A direct match
// counts regardless of relief type.
var AdjacentReliefTypes = map[string]bool{
	ReliefPooling:          true,
	ReliefSpacing:          true,
	ReliefIncreasedDensity: true,
	ReliefHorizontalWell:   true,
}

// Filing is a regulatory docket entry. A filing may affect more than one
// section; AdditionalLocations holds the secondary affected STRs and is
// matched independently of the primary Location. Read-only to this service.
type Filing struct {
	ID                  string `json:"id"`
	ReliefType          string `json:"reliefType"`
	Location            STR    `json:"location"`
	AdditionalLocations []STR  `json:"additionalLocations,omitempty"`
}
