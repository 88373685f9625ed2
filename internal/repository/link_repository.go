package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mineralwatch/api/internal/config"
	"github.com/mineralwatch/api/internal/database"
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/models"
)

// LinkRepository defines read access to the replicated store.
//
// All location-driven reads chunk their inputs to the store's configured
// parameter and statement ceilings, run the chunks as concurrent batch calls,
// and return the flattened rows without deduplication - dedup rules differ
// between direct and adjacent passes, so they belong to the aggregator.
//
// A failed or timed-out chunk is logged and contributes no rows; it never
// fails the request. Only a total inability to run the query (context
// cancelled) surfaces as an error.
type LinkRepository interface {
	// PropertiesByTenant returns the tenant's property portfolio. An empty
	// result is returned as an empty slice, not an error; the resolver
	// decides whether that warrants a fallback read.
	PropertiesByTenant(ctx context.Context, tenant models.Tenant) ([]models.Property, error)

	// WellLinksByLocations returns active property-well links for wells in
	// any of the given sections. Rows carry externally stable identifiers.
	WellLinksByLocations(ctx context.Context, locs []models.STR) ([]models.WellLink, error)

	// DocumentLinksByLocations returns active property-document links for
	// documents in any of the given sections.
	DocumentLinksByLocations(ctx context.Context, locs []models.STR) ([]models.DocumentLink, error)

	// FilingsByLocations returns docket filings whose primary STR or any of
	// their additional affected STRs falls in the given sections, with the
	// full additional-locations list attached to each filing.
	FilingsByLocations(ctx context.Context, locs []models.STR) ([]models.Filing, error)
}

// dbConn is the slice of pgxpool.Pool the repository needs. Narrowed to an
// interface so tests can substitute a fake batch transport.
type dbConn interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// linkRepository is the concrete replica-backed implementation.
type linkRepository struct {
	db  dbConn
	cfg config.DatabaseConfig
	log *logger.Logger
}

// NewLinkRepository creates a LinkRepository over the replica pool.
func NewLinkRepository(db *database.Database, cfg config.DatabaseConfig, log *logger.Logger) LinkRepository {
	return &linkRepository{
		db:  db.Pool,
		cfg: cfg,
		log: log,
	}
}

// newLinkRepositoryWithConn is the test seam.
func newLinkRepositoryWithConn(db dbConn, cfg config.DatabaseConfig, log *logger.Logger) *linkRepository {
	return &linkRepository{db: db, cfg: cfg, log: log}
}
