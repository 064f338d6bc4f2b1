package handlers

import (
	"net/http"
	"strings"

	"utrippin/internal/domain/models"
	"utrippin/internal/http/middleware"
	"utrippin/internal/services"

	"github.com/gin-gonic/gin"
)

func tripService(c *gin.Context) services.TripService {
	d := deps()
	return services.TripService{
		Repo:      d.Trips,
		RequestID: middleware.GetRequestID(c),
		Now:       d.Now,
	}
}

// =======================
// ROUTES
// =======================

// GET /api/trips
func ListPublicTrips(c *gin.Context) {
	f := models.TripFilters{
		Destination: strings.TrimSpace(c.Query("destination")),
		Country:     strings.TrimSpace(c.Query("country")),
		StartDate:   strings.TrimSpace(c.Query("start_date")),
		EndDate:     strings.TrimSpace(c.Query("end_date")),
		BudgetMin:   queryFloat(c, "budget_min"),
		BudgetMax:   queryFloat(c, "budget_max"),
		TripTypes:   queryList(c, "trip_types"),
		Limit:       queryInt(c, "limit", 0),
		Offset:      queryInt(c, "offset", 0),
	}
	trips, err := tripService(c).ListPublic(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GET /api/me/trips
func ListMyTrips(c *gin.Context) {
	trips, err := tripService(c).ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var in services.TripInput
	if !BindJSONOrError(c, &in) {
		return
	}
	t, err := tripService(c).Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GET /api/trips/:id
func GetTrip(c *gin.Context) {
	t, err := tripService(c).Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// PUT /api/trips/:id
func UpdateTrip(c *gin.Context) {
	var in services.TripInput
	if !BindJSONOrError(c, &in) {
		return
	}
	t, err := tripService(c).Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	if err := tripService(c).Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted"})
}

type applyRequest struct {
	Message string `json:"message"`
}

// POST /api/trips/:id/apply
func ApplyToTrip(c *gin.Context) {
	var req applyRequest
	// the message is optional, so an empty body is fine
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid payload", err)
			return
		}
	}
	app, err := tripService(c).Apply(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Message)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// GET /api/trips/:id/itinerary.pdf
func GetTripItineraryPDF(c *gin.Context) {
	svc := services.DocsService{
		Trips:     tripService(c),
		Matcher:   deps().Matcher,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateItinerary(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
