// Package authstore is the read-only client for the authoritative record
// store. The store is rate-limited and slow relative to the replica, so it is
// only read on portfolio cache misses and when the resolver falls back.
package authstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mineralwatch/api/internal/config"
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/models"
)

// RecordStore is the read interface the rest of the service depends on.
// The authoritative store is the source of truth when the replica disagrees
// or is missing data; no writes ever go through this interface.
type RecordStore interface {
	PropertiesByTenant(ctx context.Context, tenant models.Tenant) ([]models.Property, error)
	WellLinksByLocations(ctx context.Context, locs []models.STR) ([]models.WellLink, error)
	DocumentLinksByLocations(ctx context.Context, locs []models.STR) ([]models.DocumentLink, error)
	FilingsByLocations(ctx context.Context, locs []models.STR) ([]models.Filing, error)
}

// Client talks JSON over HTTP to the record store.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a record store client from configuration.
func NewClient(cfg config.RecordsConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// locationSearch is the request body for location-driven searches. Location
// lists can run to thousands of entries for a large portfolio, so these are
// POSTed rather than packed into a query string.
type locationSearch struct {
	Locations []models.STR `json:"locations"`
}

// PropertiesByTenant fetches the tenant's property portfolio.
func (c *Client) PropertiesByTenant(ctx context.Context, tenant models.Tenant) ([]models.Property, error) {
	params := url.Values{}
	params.Set("user_id", tenant.UserID)
	if tenant.OrgID != "" {
		params.Set("org_id", tenant.OrgID)
	}

	var properties []models.Property
	if err := c.get(ctx, "/v1/properties?"+params.Encode(), &properties); err != nil {
		return nil, fmt.Errorf("record store properties read failed: %w", err)
	}
	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

// WellLinksByLocations fetches active property-well links for the sections.
func (c *Client) WellLinksByLocations(ctx context.Context, locs []models.STR) ([]models.WellLink, error) {
	var links []models.WellLink
	if err := c.post(ctx, "/v1/well-links/search", locationSearch{Locations: locs}, &links); err != nil {
		return nil, fmt.Errorf("record store well links read failed: %w", err)
	}
	return links, nil
}

// DocumentLinksByLocations fetches active property-document links.
func (c *Client) DocumentLinksByLocations(ctx context.Context, locs []models.STR) ([]models.DocumentLink, error) {
	var links []models.DocumentLink
	if err := c.post(ctx, "/v1/document-links/search", locationSearch{Locations: locs}, &links); err != nil {
		return nil, fmt.Errorf("record store document links read failed: %w", err)
	}
	return links, nil
}

// FilingsByLocations fetches docket filings affecting the sections, primary
// or additional.
func (c *Client) FilingsByLocations(ctx context.Context, locs []models.STR) ([]models.Filing, error) {
	var filings []models.Filing
	if err := c.post(ctx, "/v1/filings/search", locationSearch{Locations: locs}, &filings); err != nil {
		return nil, fmt.Errorf("record store filings read failed: %w", err)
	}
	return filings, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the log, then discard the rest so
		// the connection can be reused.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		io.Copy(io.Discard, resp.Body)
		c.log.Warn("Record store returned non-OK status", map[string]interface{}{
			"status": resp.StatusCode,
			"path":   req.URL.Path,
			"body":   string(snippet),
		})
		return fmt.Errorf("record store returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
