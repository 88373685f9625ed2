package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/mineralwatch/api/internal/models"
)

// Filings are matched on the primary STR or any of the filing's additional
// affected sections, and each row carries the full additional-locations list
// so the aggregator can re-match it against every property. One statement per
// location keeps the predicate simple; the batch layer packs the statements.
const filingsByLocationSQL = `
	SELECT
		f.external_id,
		f.relief_type,
		f.section,
		f.township,
		f."range",
		f.meridian,
		COALESCE(
			(SELECT json_agg(json_build_object(
				'section', fl.section,
				'township', fl.township,
				'range', fl."range",
				'meridian', fl.meridian))
			 FROM filing_locations fl
			 WHERE fl.filing_id = f.id),
			'[]'::json)
	FROM filings f
	WHERE (f.section = $1 AND f.township = $2 AND f."range" = $3 AND f.meridian = $4)
	   OR EXISTS (
			SELECT 1 FROM filing_locations fl
			WHERE fl.filing_id = f.id
			  AND fl.section = $1 AND fl.township = $2
			  AND fl."range" = $3 AND fl.meridian = $4)
`

// FilingsByLocations returns docket filings affecting any of the given
// sections, primary or additional.
func (r *linkRepository) FilingsByLocations(ctx context.Context, locs []models.STR) ([]models.Filing, error) {
	stmts := make([]statement, 0, len(locs))
	for _, loc := range locs {
		stmts = append(stmts, statement{
			sql:  filingsByLocationSQL,
			args: []any{loc.Section, loc.Township, loc.Range, loc.Meridian},
		})
	}

	return runBatches(ctx, r, "filings", stmts, scanFiling)
}

func scanFiling(rows pgx.Rows) (models.Filing, error) {
	var filing models.Filing
	var additional []byte

	err := rows.Scan(
		&filing.ID,
		&filing.ReliefType,
		&filing.Location.Section,
		&filing.Location.Township,
		&filing.Location.Range,
		&filing.Location.Meridian,
		&additional,
	)
	if err != nil {
		return models.Filing{}, err
	}

	if err := json.Unmarshal(additional, &filing.AdditionalLocations); err != nil {
		return models.Filing{}, err
	}
	return filing, nil
}
