package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mineralwatch/api/internal/models"
)

const documentLinksByLocationsSQL = `
	SELECT
		dl.external_id,
		p.external_id,
		d.external_id,
		dl.status
	FROM document_links dl
	JOIN properties p ON p.id = dl.property_id
	JOIN documents d ON d.id = dl.document_id
	WHERE dl.status = 'active'
	  AND (d.section, d.township, d."range", d.meridian) IN (%s)
`

// DocumentLinksByLocations returns active property-document links for case
// documents recorded in any of the given sections.
func (r *linkRepository) DocumentLinksByLocations(ctx context.Context, locs []models.STR) ([]models.DocumentLink, error) {
	stmts := make([]statement, 0, 1)
	for _, chunk := range chunkLocations(locs, r.cfg.MaxParamsPerStmt) {
		stmts = append(stmts, statement{
			sql:  fmt.Sprintf(documentLinksByLocationsSQL, locationTuples(len(chunk))),
			args: locationArgs(chunk),
		})
	}

	return runBatches(ctx, r, "document_links", stmts, func(rows pgx.Rows) (models.DocumentLink, error) {
		var link models.DocumentLink
		err := rows.Scan(&link.ID, &link.PropertyID, &link.DocumentID, &link.Status)
		return link, err
	})
}
