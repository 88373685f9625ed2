package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mineralwatch/api/internal/cache"
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/models"
	"github.com/mineralwatch/api/internal/resolver"
)

// Service-level errors
var (
	// ErrPortfolioUnavailable means the tenant's property list could not be
	// read from either store. Without it there is nothing to count.
	ErrPortfolioUnavailable = errors.New("portfolio unavailable")
)

// LinkCountsResult is the aggregated answer for one tenant request.
type LinkCountsResult struct {
	// Counts maps property ID to its tallies. Every portfolio property has
	// an entry, zero-valued when nothing touched it.
	Counts map[string]models.LinkCounts
	// Degraded is true when any read was served by the authoritative store
	// instead of the replica, or when a link search failed on both stores
	// and contributed no rows.
	Degraded bool
}

// LinkCountsService defines the business logic for portfolio link counting.
type LinkCountsService interface {
	// CountLinks aggregates well link, document link, and docket filing
	// counts for every property in the tenant's portfolio. A link search
	// that fails on both stores contributes zero rows and marks the result
	// degraded; the result map is always complete.
	// Returns ErrPortfolioUnavailable if the portfolio cannot be read.
	// Returns the context error if the request was cancelled.
	CountLinks(ctx context.Context, tenant models.Tenant) (*LinkCountsResult, error)
}

// linkCountsService is the concrete implementation of LinkCountsService.
type linkCountsService struct {
	resolver   *resolver.Resolver
	portfolios *cache.PortfolioCache
	log        *logger.Logger
}

// NewLinkCountsService creates a new instance of LinkCountsService.
func NewLinkCountsService(res *resolver.Resolver, portfolios *cache.PortfolioCache, log *logger.Logger) LinkCountsService {
	return &linkCountsService{
		resolver:   res,
		portfolios: portfolios,
		log:        log,
	}
}

// CountLinks resolves the portfolio, expands each property location to its
// section plus edge-adjacent sections, fans out the three link searches in
// parallel, and aggregates per-property counts.
func (s *linkCountsService) CountLinks(ctx context.Context, tenant models.Tenant) (*LinkCountsResult, error) {
	properties, degraded, err := s.portfolio(ctx, tenant)
	if err != nil {
		return nil, err
	}

	idx := buildPortfolioIndex(properties, s.log)
	locations := idx.searchLocations()

	s.log.Info("Counting portfolio links", map[string]interface{}{
		"tenant":     tenant.CacheKey(),
		"properties": len(properties),
		"locations":  len(locations),
	})

	var (
		wells   []models.WellLink
		docs    []models.DocumentLink
		filings []models.Filing

		wellProv, docProv, filingProv resolver.Provenance
	)

	if len(locations) > 0 {
		var (
			g errgroup.Group

			wellFailed, docFailed, filingFailed bool
		)

		g.Go(func() error {
			var err error
			wells, wellProv, err = s.resolver.WellLinks(ctx, locations)
			return s.recoverLinkFailure(ctx, tenant, "well links", err, &wellFailed)
		})
		g.Go(func() error {
			var err error
			docs, docProv, err = s.resolver.DocumentLinks(ctx, locations)
			return s.recoverLinkFailure(ctx, tenant, "document links", err, &docFailed)
		})
		g.Go(func() error {
			var err error
			filings, filingProv, err = s.resolver.Filings(ctx, locations)
			return s.recoverLinkFailure(ctx, tenant, "filings", err, &filingFailed)
		})

		// Only cancellation surfaces here; a pass that failed on both
		// stores has already been downgraded to zero rows.
		if err := g.Wait(); err != nil {
			return nil, err
		}

		degraded = degraded ||
			wellFailed || docFailed || filingFailed ||
			wellProv == resolver.ProvenanceFallback ||
			docProv == resolver.ProvenanceFallback ||
			filingProv == resolver.ProvenanceFallback
	}

	return &LinkCountsResult{
		Counts:   idx.aggregate(wells, docs, filings),
		Degraded: degraded,
	}, nil
}

// recoverLinkFailure downgrades a dual-store failure on one link pass to an
// empty result so the surviving passes still produce counts. Cancellation is
// the only error that aborts the request.
func (s *linkCountsService) recoverLinkFailure(ctx context.Context, tenant models.Tenant, kind string, err error, failed *bool) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	s.log.Error("Link search failed on both stores, counting none", err, map[string]interface{}{
		"tenant": tenant.CacheKey(),
		"kind":   kind,
	})
	*failed = true
	return nil
}

// portfolio returns the tenant's properties, consulting the cache first. A
// cached portfolio is served as-is; only resolver reads populate the cache.
// The returned bool is true when the read fell back to the authoritative
// store.
func (s *linkCountsService) portfolio(ctx context.Context, tenant models.Tenant) ([]models.Property, bool, error) {
	key := tenant.CacheKey()
	if properties, ok := s.portfolios.Get(key); ok {
		s.log.Debug("Portfolio cache hit", map[string]interface{}{
			"tenant": key,
		})
		return properties, false, nil
	}

	properties, prov, err := s.resolver.Portfolio(ctx, tenant)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, err
		}
		s.log.Error("Portfolio read failed on both stores", err, map[string]interface{}{
			"tenant": key,
		})
		return nil, false, fmt.Errorf("%w: %v", ErrPortfolioUnavailable, err)
	}

	s.portfolios.Set(key, properties)
	return properties, prov == resolver.ProvenanceFallback, nil
}
