package handlers

import (
	"net/http"
	"strings"

	"utrippin/internal/activities"
	"utrippin/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func matcher() *activities.Matcher {
	if m := deps().Matcher; m != nil {
		return m
	}
	return activities.NewMatcherFrom(nil)
}

// GET /api/activities?destination=&limit=
func GetActivities(c *gin.Context) {
	dest := strings.TrimSpace(c.Query("destination"))
	if dest == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "destination is required", nil)
		return
	}
	acts := matcher().FindActivitiesForDestination(dest, queryInt(c, "limit", activities.DefaultMaxResults))
	c.JSON(http.StatusOK, gin.H{"destination": dest, "activities": acts, "total": len(acts)})
}

type itineraryRequest struct {
	Destination string `json:"destination"`
	Duration    string `json:"duration"`
	BudgetLevel string `json:"budget_level"`
	Limit       int    `json:"limit"`
}

// POST /api/activities/itinerary
func BuildItinerary(c *gin.Context) {
	var req itineraryRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Destination == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "destination is required", nil)
		return
	}

	acts := matcher().FindActivitiesForDestination(req.Destination, req.Limit)
	days := activities.GenerateDayByDayItinerary(req.Destination, req.Duration, acts)
	if days == nil {
		days = []models.ItineraryDay{}
	}
	c.JSON(http.StatusOK, gin.H{
		"destination": req.Destination,
		"days":        len(days),
		"itinerary":   days,
		"activities":  acts,
		"restaurants": activities.RestaurantRecommendations(req.BudgetLevel),
	})
}
