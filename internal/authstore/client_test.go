package authstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralwatch/api/internal/config"
	"github.com/mineralwatch/api/internal/logger"
	"github.com/mineralwatch/api/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.RecordsConfig{
		BaseURL:  srv.URL,
		APIToken: "test-token",
		Timeout:  2 * time.Second,
	}, logger.New("test"))
}

func TestPropertiesByTenant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/properties", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "org-1", r.URL.Query().Get("org_id"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]models.Property{
			{
				ID:       "prop-1",
				UserID:   "user-1",
				OrgID:    "org-1",
				Location: &models.STR{Section: 15, Township: "9N", Range: "5W", Meridian: "IM"},
			},
			{ID: "prop-2", UserID: "user-1", OrgID: "org-1"},
		})
	})

	props, err := client.PropertiesByTenant(context.Background(), models.Tenant{UserID: "user-1", OrgID: "org-1"})
	require.NoError(t, err)

	require.Len(t, props, 2)
	assert.Equal(t, "prop-1", props[0].ID)
	require.NotNil(t, props[0].Location)
	assert.Equal(t, 15, props[0].Location.Section)
	assert.Nil(t, props[1].Location, "property without STR stays location-less")
}

func TestPropertiesByTenant_OmitsEmptyOrg(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasOrg := r.URL.Query()["org_id"]
		assert.False(t, hasOrg, "org_id must be omitted for individual tenants")
		json.NewEncoder(w).Encode([]models.Property{})
	})

	props, err := client.PropertiesByTenant(context.Background(), models.Tenant{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, props)
	assert.NotNil(t, props, "empty portfolio decodes to an empty slice")
}

func TestFilingsByLocations_PostsLocationList(t *testing.T) {
	locs := []models.STR{
		{Section: 15, Township: "9N", Range: "5W", Meridian: "IM"},
		{Section: 16, Township: "9N", Range: "5W", Meridian: "IM"},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/filings/search", r.URL.Path)

		var body struct {
			Locations []models.STR `json:"locations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, locs, body.Locations)

		json.NewEncoder(w).Encode([]models.Filing{
			{
				ID:         "filing-1",
				ReliefType: models.ReliefPooling,
				Location:   models.STR{Section: 16, Township: "9N", Range: "5W", Meridian: "IM"},
				AdditionalLocations: []models.STR{
					{Section: 21, Township: "9N", Range: "5W", Meridian: "IM"},
				},
			},
		})
	})

	filings, err := client.FilingsByLocations(context.Background(), locs)
	require.NoError(t, err)

	require.Len(t, filings, 1)
	assert.Equal(t, models.ReliefPooling, filings[0].ReliefType)
	require.Len(t, filings[0].AdditionalLocations, 1)
}

func TestWellLinksByLocations_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.WellLinksByLocations(context.Background(), []models.STR{
		{Section: 1, Township: "9N", Range: "5W", Meridian: "IM"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestDocumentLinksByLocations_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.DocumentLink{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.DocumentLinksByLocations(ctx, nil)
	assert.Error(t, err)
}
