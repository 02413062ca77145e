package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/locator"
)

// HospitalLocator is what the handler needs from locator.Client.
type HospitalLocator interface {
	Geocode(ctx context.Context, query string) (locator.Coordinate, error)
	NearbyHospitals(ctx context.Context, origin locator.Coordinate, limit int) ([]locator.Hospital, error)
}

type HospitalHandler struct {
	locator HospitalLocator
}

func NewHospitalHandler(loc HospitalLocator) *HospitalHandler {
	return &HospitalHandler{locator: loc}
}

// Nearby accepts either an explicit lat/lon pair or a free-text location to
// geocode, and returns the closest hospitals sorted by distance.
func (h *HospitalHandler) Nearby(c *gin.Context) {
	ctx := c.Request.Context()

	origin, ok := h.resolveOrigin(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	hospitals, err := h.locator.NearbyHospitals(ctx, origin, limit)
	if err != nil {
		httperr.BadGateway(c, "Failed to fetch hospitals. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"origin":    origin,
		"hospitals": hospitals,
		"total":     len(hospitals),
	})
}

func (h *HospitalHandler) resolveOrigin(c *gin.Context) (locator.Coordinate, bool) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			httperr.BadRequest(c, "Invalid coordinates")
			return locator.Coordinate{}, false
		}
		return locator.Coordinate{Lat: lat, Lon: lon}, true
	}

	query := c.Query("location")
	if query == "" {
		httperr.BadRequest(c, "Enter a location or coordinates")
		return locator.Coordinate{}, false
	}

	origin, err := h.locator.Geocode(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, locator.ErrNoResults) {
			httperr.NotFound(c, "No results found for the entered location.")
			return locator.Coordinate{}, false
		}
		httperr.BadGateway(c, "Failed to search location. Please try again.")
		return locator.Coordinate{}, false
	}

	return origin, true
}
