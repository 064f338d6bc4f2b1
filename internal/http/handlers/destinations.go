package handlers

import (
	"net/http"
	"strings"

	"utrippin/internal/destinations"

	"github.com/gin-gonic/gin"
)

// GET /api/destinations/code?name=
func GetDestinationCode(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}
	c.JSON(http.StatusOK, destinations.Resolve(name))
}

// GET /api/destinations/hotel-params?category=|type=|destination=
func GetHotelSearchParams(c *gin.Context) {
	now := deps().Now()
	dest := strings.TrimSpace(c.Query("destination"))

	switch {
	case strings.TrimSpace(c.Query("category")) != "":
		c.JSON(http.StatusOK, destinations.CategorySearchParams(dest, strings.TrimSpace(c.Query("category")), now))
	case strings.TrimSpace(c.Query("type")) != "":
		c.JSON(http.StatusOK, destinations.HotelTypeSearchParams(strings.TrimSpace(c.Query("type")), now))
	case dest != "" && strings.TrimSpace(c.Query("deal")) != "":
		var band *[2]int
		minP, maxP := queryInt(c, "min_price", 0), queryInt(c, "max_price", 0)
		if maxP > 0 {
			band = &[2]int{minP, maxP}
		}
		c.JSON(http.StatusOK, destinations.DealSearchParams(dest, strings.TrimSpace(c.Query("deal")), band, now))
	case dest != "":
		c.JSON(http.StatusOK, destinations.DestinationSearchParams(dest, now))
	default:
		respondError(c, http.StatusBadRequest, "validation_error", "one of category, type or destination is required", nil)
	}
}

// GET /api/destinations/popular
func GetPopularDestinations(c *gin.Context) {
	out, err := tripService(c).PopularDestinations(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"destinations": out})
}

// GET /api/destinations/search?q=
func SearchTripDestinations(c *gin.Context) {
	out, err := tripService(c).SearchDestinations(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if out == nil {
		out = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"destinations": out})
}
