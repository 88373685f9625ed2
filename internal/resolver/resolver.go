// Package resolver decides, per read, whether the replicated store or the
// authoritative record store serves it, and tags every result with its
// provenance so a false-empty from a lagging replica is distinguishable from
// a true-empty.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mineralwatch/api/internal/authstore"
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/models"
	"github.com/mineralwatch/api/internal/repository"
)

// Provenance records which store served a read.
type Provenance string

const (
	// ProvenanceReplica means the replicated SQL store served the read.
	ProvenanceReplica Provenance = "replica"
	// ProvenanceFallback means the authoritative record store served it.
	ProvenanceFallback Provenance = "fallback"
)

// ErrStoreUnavailable is returned when neither store could serve a read.
var ErrStoreUnavailable = errors.New("store unavailable")

// Resolver performs dual-store reads. Each read starts against the replica
// and transitions to fallback when the replica is unconfigured, errors, or -
// for the portfolio read - returns a structurally valid but empty result for
// a parent expected to exist. Reads are strictly read-only; a stale replica
// is repaired by the external ingestion pipeline, never from here.
type Resolver struct {
	replica repository.LinkRepository // nil when no replica is configured
	records authstore.RecordStore
	log     *logger.Logger
}

// New creates a Resolver. replica may be nil, in which case every read goes
// straight to the authoritative store.
func New(replica repository.LinkRepository, records authstore.RecordStore, log *logger.Logger) *Resolver {
	return &Resolver{
		replica: replica,
		records: records,
		log:     log,
	}
}

// Portfolio resolves the tenant's property list. An empty replica result
// triggers fallback: the portfolio is the parent of everything else in a
// request, and a replica that has not yet synced the tenant looks exactly
// like an empty portfolio.
func (r *Resolver) Portfolio(ctx context.Context, tenant models.Tenant) ([]models.Property, Provenance, error) {
	if r.replica != nil {
		properties, err := r.replica.PropertiesByTenant(ctx, tenant)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ProvenanceReplica, err
		case err != nil:
			r.log.Warn("Replica portfolio read failed, falling back", map[string]interface{}{
				"tenant": tenant.CacheKey(),
				"error":  err.Error(),
			})
		case len(properties) == 0:
			r.log.Info("Replica portfolio empty, verifying against record store", map[string]interface{}{
				"tenant": tenant.CacheKey(),
			})
		default:
			return properties, ProvenanceReplica, nil
		}
	}

	properties, err := r.records.PropertiesByTenant(ctx, tenant)
	if err != nil {
		return nil, ProvenanceFallback, fmt.Errorf("%w: portfolio read: %v", ErrStoreUnavailable, err)
	}
	return properties, ProvenanceFallback, nil
}

// WellLinks resolves active property-well links for the given sections.
// Unlike the portfolio read, an empty link set from a healthy replica is a
// valid answer and does not trigger fallback.
func (r *Resolver) WellLinks(ctx context.Context, locs []models.STR) ([]models.WellLink, Provenance, error) {
	if r.replica != nil {
		links, err := r.replica.WellLinksByLocations(ctx, locs)
		if err == nil {
			return links, ProvenanceReplica, nil
		}
		if ctx.Err() != nil {
			return nil, ProvenanceReplica, err
		}
		r.log.Warn("Replica well links read failed, falling back", map[string]interface{}{
			"locations": len(locs),
			"error":     err.Error(),
		})
	}

	links, err := r.records.WellLinksByLocations(ctx, locs)
	if err != nil {
		return nil, ProvenanceFallback, fmt.Errorf("%w: well links read: %v", ErrStoreUnavailable, err)
	}
	return links, ProvenanceFallback, nil
}

// DocumentLinks resolves active property-document links for the sections.
func (r *Resolver) DocumentLinks(ctx context.Context, locs []models.STR) ([]models.DocumentLink, Provenance, error) {
	if r.replica != nil {
		links, err := r.replica.DocumentLinksByLocations(ctx, locs)
		if err == nil {
			return links, ProvenanceReplica, nil
		}
		if ctx.Err() != nil {
			return nil, ProvenanceReplica, err
		}
		r.log.Warn("Replica document links read failed, falling back", map[string]interface{}{
			"locations": len(locs),
			"error":     err.Error(),
		})
	}

	links, err := r.records.DocumentLinksByLocations(ctx, locs)
	if err != nil {
		return nil, ProvenanceFallback, fmt.Errorf("%w: document links read: %v", ErrStoreUnavailable, err)
	}
	return links, ProvenanceFallback, nil
}

// Filings resolves docket filings affecting the sections.
func (r *Resolver) Filings(ctx context.Context, locs []models.STR) ([]models.Filing, Provenance, error) {
	if r.replica != nil {
		filings, err := r.replica.FilingsByLocations(ctx, locs)
		if err == nil {
			return filings, ProvenanceReplica, nil
		}
		if ctx.Err() != nil {
			return nil, ProvenanceReplica, err
		}
		r.log.Warn("Replica filings read failed, falling back", map[string]interface{}{
			"locations": len(locs),
			"error":     err.Error(),
		})
	}

	filings, err := r.records.FilingsByLocations(ctx, locs)
	if err != nil {
		return nil, ProvenanceFallback, fmt.Errorf("%w: filings read: %v", ErrStoreUnavailable, err)
	}
	return filings, ProvenanceFallback, nil
}
