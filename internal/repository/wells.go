package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mineralwatch/api/internal/models"
)

// The replica carries two identifiers per row: its own bigint primary key and
// the authoritative store's external id. Joins run on the local keys; only
// external ids ever leave this package.
const wellLinksByLocationsSQL = `
	SELECT
		wl.external_id,
		p.external_id,
		w.external_id,
		wl.status
	FROM well_links wl
	JOIN properties p ON p.id = wl.property_id
	JOIN wells w ON w.id = wl.well_id
	WHERE wl.status = 'active'
	  AND (w.section, w.township, w."range", w.meridian) IN (%s)
`

// WellLinksByLocations returns active property-well links for wells sitting
// in any of the given sections, chunked to the store's limits.
func (r *linkRepository) WellLinksByLocations(ctx context.Context, locs []models.STR) ([]models.WellLink, error) {
	stmts := make([]statement, 0, 1)
	for _, chunk := range chunkLocations(locs, r.cfg.MaxParamsPerStmt) {
		stmts = append(stmts, statement{
			sql:  fmt.Sprintf(wellLinksByLocationsSQL, locationTuples(len(chunk))),
			args: locationArgs(chunk),
		})
	}

	return runBatches(ctx, r, "well_links", stmts, func(rows pgx.Rows) (models.WellLink, error) {
		var link models.WellLink
		err := rows.Scan(&link.ID, &link.PropertyID, &link.WellID, &link.Status)
		return link, err
	})
}
