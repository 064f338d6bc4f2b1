package handlers

import (
	"encoding/json"
	"net/http"

	"utrippin/internal/domain/models"
	"utrippin/internal/http/middleware"
	"utrippin/internal/services"

	"github.com/gin-gonic/gin"
)

func interactionService(c *gin.Context) services.InteractionService {
	d := deps()
	return services.InteractionService{
		Repo:      d.Interactions,
		RequestID: middleware.GetRequestID(c),
		Now:       d.Now,
	}
}

type activityRequest struct {
	ActivityType string          `json:"activity_type"`
	ActivityData json.RawMessage `json:"activity_data"`
}

// POST /api/activity
func LogUserActivity(c *gin.Context) {
	var req activityRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	a, err := interactionService(c).LogActivity(c.Request.Context(), middleware.GetUserID(c), req.ActivityType, req.ActivityData)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GET /api/me/activity
func ListMyActivity(c *gin.Context) {
	out, err := interactionService(c).ListActivity(c.Request.Context(), middleware.GetUserID(c), queryInt(c, "limit", 0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if out == nil {
		out = []models.UserActivity{}
	}
	c.JSON(http.StatusOK, gin.H{"activity": out})
}

// POST /api/me/searches
func RecordMySearch(c *gin.Context) {
	var rec models.SearchRecord
	if !BindJSONOrError(c, &rec) {
		return
	}
	saved, err := interactionService(c).RecordSearch(c.Request.Context(), middleware.GetUserID(c), rec)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// GET /api/me/searches?type=
func ListMySearches(c *gin.Context) {
	out, err := interactionService(c).ListSearches(c.Request.Context(), middleware.GetUserID(c), c.Query("type"), queryInt(c, "limit", 0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if out == nil {
		out = []models.SearchRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"searches": out})
}
