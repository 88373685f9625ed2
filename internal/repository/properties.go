package repository

import (
	"context"
	"fmt"

	"github.com/mineralwatch/api/internal/models"
)

const propertiesByOrgSQL = `
	SELECT external_id, user_external_id, org_external_id,
	       section, township, "range", meridian
	FROM properties
	WHERE org_external_id = $1
`

const propertiesByUserSQL = `
	SELECT external_id, user_external_id, org_external_id,
	       section, township, "range", meridian
	FROM properties
	WHERE user_external_id = $1 AND org_external_id IS NULL
`

// PropertiesByTenant returns the replica's view of the tenant's portfolio.
// An empty portfolio is a valid result here; whether it means "no properties"
// or "replica is behind" is the resolver's call.
func (r *linkRepository) PropertiesByTenant(ctx context.Context, tenant models.Tenant) ([]models.Property, error) {
	qctx, cancel := context.WithTimeout(ctx, r.cfg.QueryTimeout)
	defer cancel()

	query := propertiesByUserSQL
	key := tenant.UserID
	if tenant.OrgID != "" {
		query = propertiesByOrgSQL
		key = tenant.OrgID
	}

	rows, err := r.db.Query(qctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties for tenant %s: %w", tenant.CacheKey(), err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var p models.Property
		var orgID *string
		var section *int
		var township, rng, meridian *string

		err := rows.Scan(&p.ID, &p.UserID, &orgID, &section, &township, &rng, &meridian)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}

		if orgID != nil {
			p.OrgID = *orgID
		}
		// STR fields are all present or all absent; a partial location is
		// treated as absent rather than guessed at.
		if section != nil && township != nil && rng != nil && meridian != nil {
			p.Location = &models.STR{
				Section:  *section,
				Township: *township,
				Range:    *rng,
				Meridian: *meridian,
			}
		}

		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return properties, nil
}
