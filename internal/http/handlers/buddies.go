package handlers

import (
	"net/http"

	"utrippin/internal/buddies"
	"utrippin/internal/domain/models"
	"utrippin/internal/http/middleware"
	"utrippin/internal/services"

	"github.com/gin-gonic/gin"
)

func buddyService(c *gin.Context) services.BuddyService {
	d := deps()
	return services.BuddyService{
		Repo:      d.Profiles,
		RequestID: middleware.GetRequestID(c),
		Now:       d.Now,
	}
}

// GET /api/me/profile
func GetMyProfile(c *gin.Context) {
	p, err := buddyService(c).GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /api/me/profile
func SaveMyProfile(c *gin.Context) {
	var p models.TravelerProfile
	if !BindJSONOrError(c, &p) {
		return
	}
	saved, err := buddyService(c).SaveProfile(c.Request.Context(), middleware.GetUserID(c), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// POST /api/buddies/matches
func FindBuddyMatches(c *gin.Context) {
	var f buddies.Filters
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&f); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid payload", err)
			return
		}
	}
	summary, err := buddyService(c).FindMatches(c.Request.Context(), middleware.GetUserID(c), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type swipeRequest struct {
	SwipedID string `json:"swiped_id"`
	Liked    bool   `json:"liked"`
}

// POST /api/buddies/swipes
func RecordBuddySwipe(c *gin.Context) {
	var req swipeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := buddyService(c).RecordSwipe(c.Request.Context(), middleware.GetUserID(c), req.SwipedID, req.Liked)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/buddies/matches
func ListBuddyMatches(c *gin.Context) {
	matches, err := buddyService(c).ListMatches(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if matches == nil {
		matches = []models.BuddyMatch{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
