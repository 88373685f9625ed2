package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/mineralwatch/api/internal/errors"
	"github.com/mineralwatch/api/internal/middleware"
	"github.com/mineralwatch/api/internal/models"
	"github.com/mineralwatch/api/internal/services"
)

// LinkCountsHandler handles portfolio link count HTTP requests.
type LinkCountsHandler struct {
	service services.LinkCountsService
}

// NewLinkCountsHandler creates a new LinkCountsHandler instance.
func NewLinkCountsHandler(service services.LinkCountsService) *LinkCountsHandler {
	return &LinkCountsHandler{
		service: service,
	}
}

// LinkCountsRequest represents the query parameters for the link-counts endpoint.
type LinkCountsRequest struct {
	UserID string `form:"user_id" binding:"required"`
	OrgID  string `form:"org_id"`
}

// LinkCountsResponse represents the response for the link-counts endpoint.
// Counts maps property ID to its per-kind tallies; every property in the
// tenant's portfolio has an entry. Degraded is true when the answer was
// served wholly or partly by the authoritative store instead of the replica.
type LinkCountsResponse struct {
	Counts   map[string]models.LinkCounts `json:"counts"`
	Count    int                          `json:"count"`
	Degraded bool                         `json:"degraded"`
}

// LinkCounts handles GET /api/v1/properties/link-counts.
// It aggregates well link, document link, and docket filing counts for every
// property in the requesting tenant's portfolio.
func (h *LinkCountsHandler) LinkCounts(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req LinkCountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	tenant := models.Tenant{UserID: req.UserID, OrgID: req.OrgID}

	if log != nil {
		log.Info("Processing link-counts request", map[string]interface{}{
			"user_id": req.UserID,
			"org_id":  req.OrgID,
		})
	}

	result, err := h.service.CountLinks(c.Request.Context(), tenant)
	if err != nil {
		if errors.Is(err, services.ErrPortfolioUnavailable) {
			apierrors.ServiceUnavailable(c, "Property data is temporarily unavailable", err)
			return
		}
		apierrors.InternalServerError(c, "Failed to count property links", err)
		return
	}

	c.JSON(http.StatusOK, LinkCountsResponse{
		Counts:   result.Counts,
		Count:    len(result.Counts),
		Degraded: result.Degraded,
	})
}
