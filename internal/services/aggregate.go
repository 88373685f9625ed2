package services

import (
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/models"
	"github.com/mineralwatch/api/internal/plss"
)

// portfolioEntry is one monitored property with its normalized location and
// precomputed neighbor keys. location is nil when the property has no STR on
// record or the recorded STR fails normalization.
type portfolioEntry struct {
	property     models.Property
	location     *models.STR
	locationKey  string
	neighborKeys map[string]bool
}

// portfolioIndex holds the per-request view of a tenant's portfolio in
// portfolio order. Properties may share a section, so matching always walks
// the entries rather than keying on location.
type portfolioIndex struct {
	entries []portfolioEntry
}

// buildPortfolioIndex normalizes each property location and precomputes its
// section neighbors. Properties with absent or malformed locations stay in
// the index so they appear in the output with zero counts.
func buildPortfolioIndex(properties []models.Property, log *logger.Logger) *portfolioIndex {
	idx := &portfolioIndex{
		entries: make([]portfolioEntry, 0, len(properties)),
	}

	for _, p := range properties {
		entry := portfolioEntry{property: p}

		if p.Location != nil && !p.Location.IsZero() {
			normalized, err := plss.Normalize(*p.Location)
			if err != nil {
				log.Warn("Property location failed normalization, counting as unlocated", map[string]interface{}{
					"property_id": p.ID,
					"location":    p.Location.String(),
					"error":       err.Error(),
				})
			} else {
				entry.location = &normalized
				entry.locationKey = normalized.Key()
				entry.neighborKeys = make(map[string]bool, 4)

				neighbors, err := plss.NeighborLocations(normalized)
				if err == nil {
					for _, n := range neighbors {
						entry.neighborKeys[n.Key()] = true
					}
				}
			}
		}

		idx.entries = append(idx.entries, entry)
	}

	return idx
}

// searchLocations returns the deduplicated union of every located property's
// own section and its neighbors, in first-seen order.
func (idx *portfolioIndex) searchLocations() []models.STR {
	seen := make(map[string]bool)
	var locs []models.STR

	add := func(loc models.STR) {
		key := loc.Key()
		if !seen[key] {
			seen[key] = true
			locs = append(locs, loc)
		}
	}

	for _, entry := range idx.entries {
		if entry.location == nil {
			continue
		}
		add(*entry.location)
		neighbors, err := plss.NeighborLocations(*entry.location)
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			add(n)
		}
	}

	return locs
}

// countWellLinks tallies active well links per property, deduplicated by
// link ID. Links naming properties outside the portfolio are ignored; the
// location search casts a wider net than this tenant owns.
func (idx *portfolioIndex) countWellLinks(links []models.WellLink, counts map[string]*models.LinkCounts) {
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if link.Status != models.LinkStatusActive || seen[link.ID] {
			continue
		}
		seen[link.ID] = true
		if c, ok := counts[link.PropertyID]; ok {
			c.Wells++
		}
	}
}

// countDocumentLinks tallies active document links per property,
// deduplicated by link ID.
func (idx *portfolioIndex) countDocumentLinks(links []models.DocumentLink, counts map[string]*models.LinkCounts) {
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if link.Status != models.LinkStatusActive || seen[link.ID] {
			continue
		}
		seen[link.ID] = true
		if c, ok := counts[link.PropertyID]; ok {
			c.Documents++
		}
	}
}

// countFilings tallies docket filings per property. A filing counts for a
// property when:
//   - its primary location is the property's own section (any relief type),
//   - its primary location is an adjacent section and the relief type is on
//     the adjacency whitelist, or
//   - any of its additional locations is the property's own section (any
//     relief type; additional locations never match through adjacency).
//
// One filing counts at most once per property but may count for several.
func (idx *portfolioIndex) countFilings(filings []models.Filing, counts map[string]*models.LinkCounts) {
	counted := make(map[string]bool)

	for _, filing := range filings {
		primaryKey := ""
		if primary, err := plss.Normalize(filing.Location); err == nil {
			primaryKey = primary.Key()
		}

		additionalKeys := make(map[string]bool, len(filing.AdditionalLocations))
		for _, loc := range filing.AdditionalLocations {
			if normalized, err := plss.Normalize(loc); err == nil {
				additionalKeys[normalized.Key()] = true
			}
		}

		for _, entry := range idx.entries {
			if entry.location == nil {
				continue
			}

			matches := (primaryKey != "" && primaryKey == entry.locationKey) ||
				additionalKeys[entry.locationKey] ||
				(primaryKey != "" && entry.neighborKeys[primaryKey] && models.AdjacentReliefTypes[filing.ReliefType])
			if !matches {
				continue
			}

			pairKey := filing.ID + "|" + entry.property.ID
			if counted[pairKey] {
				continue
			}
			counted[pairKey] = true
			if c, ok := counts[entry.property.ID]; ok {
				c.Filings++
			}
		}
	}
}

// aggregate produces the per-property counts for the portfolio. Every
// property appears exactly once, zero-initialized, whether or not any link
// or filing touched it.
func (idx *portfolioIndex) aggregate(wells []models.WellLink, docs []models.DocumentLink, filings []models.Filing) map[string]models.LinkCounts {
	counts := make(map[string]*models.LinkCounts, len(idx.entries))
	for _, entry := range idx.entries {
		counts[entry.property.ID] = &models.LinkCounts{}
	}

	idx.countWellLinks(wells, counts)
	idx.countDocumentLinks(docs, counts)
	idx.countFilings(filings, counts)

	out := make(map[string]models.LinkCounts, len(counts))
	for id, c := range counts {
		out[id] = *c
	}
	return out
}
