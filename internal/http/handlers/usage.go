package handlers

import (
	"net/http"

	"utrippin/internal/domain/models"
	"utrippin/internal/http/middleware"
	"utrippin/internal/services"

	"github.com/gin-gonic/gin"
)

// AlertService builds the alert service from the registered deps. main.go
// uses it for the background worker as well.
func AlertService(requestID string) services.AlertService {
	d := deps()
	return services.AlertService{
		Repo:      d.Usage,
		Notifier:  d.Notifier,
		Cooldown:  d.AlertCooldown,
		RequestID: requestID,
		Now:       d.Now,
	}
}

type trackRequest struct {
	Provider string  `json:"provider"`
	Endpoint string  `json:"endpoint"`
	Cost     float64 `json:"cost"`
}

// POST /api/usage/track
func TrackUsage(c *gin.Context) {
	var req trackRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := AlertService(middleware.GetRequestID(c)).TrackAPICall(c.Request.Context(), req.Provider, req.Endpoint, req.Cost); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/usage/summary?month=YYYY-MM
func GetUsageSummary(c *gin.Context) {
	out, err := AlertService(middleware.GetRequestID(c)).MonthlyUsageSummary(c.Request.Context(), c.Query("month"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if out == nil {
		out = []models.UsageSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"usage": out})
}

// POST /api/usage/alerts/check
func CheckUsageAlerts(c *gin.Context) {
	res, err := AlertService(middleware.GetRequestID(c)).CheckAlerts(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/usage/alerts
func ListUsageAlerts(c *gin.Context) {
	out, err := AlertService(middleware.GetRequestID(c)).ListAlerts(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if out == nil {
		out = []models.UsageAlert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": out})
}

// POST /api/usage/alerts
func CreateUsageAlert(c *gin.Context) {
	var in services.AlertInput
	if !BindJSONOrError(c, &in) {
		return
	}
	a, err := AlertService(middleware.GetRequestID(c)).CreateAlert(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DELETE /api/usage/alerts/:id
func DeactivateUsageAlert(c *gin.Context) {
	if err := AlertService(middleware.GetRequestID(c)).DeactivateAlert(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert deactivated"})
}
