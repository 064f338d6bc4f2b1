package api

import (
	stdhttp "net/http"

	intconfig "utrippin/internal/config"
	h "utrippin/internal/http/handlers"
	"utrippin/internal/http/middleware"
	"utrippin/internal/logging"
	"utrippin/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter registers deps for the handlers and builds the engine. idem may
// be nil, which turns Idempotency-Key handling off.
func NewRouter(env intconfig.Env, deps h.Deps, idem middleware.IdempotencyStore) *gin.Engine {
	h.SetDeps(deps)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.HTTP.AllowedOrigins),
		middleware.Metrics(),
		middleware.Auth(middleware.AuthConfig{Secret: env.Auth.JWTSecret, Required: env.Auth.Required}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logging.L().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	idempotent := middleware.Idempotency(idem)
	authed := middleware.RequireUser()
	admin := middleware.RequireRoles("admin", "owner")

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Flights
		api.GET("/airports", h.SearchAirports)
		flights := api.Group("/flights")
		flights.POST("/search", idempotent, h.SearchFlights)
		flights.GET("/searches/:id", h.RefineFlightSearch)
		flights.POST("/offers/group", h.GroupFlightOffers)
		flights.POST("/offers/display", h.DisplayFlightOffers)

		// Activities
		api.GET("/activities", h.GetActivities)
		api.POST("/activities/itinerary", h.BuildItinerary)

		// Destinations
		destinations := api.Group("/destinations")
		destinations.GET("/code", h.GetDestinationCode)
		destinations.GET("/hotel-params", h.GetHotelSearchParams)
		destinations.GET("/popular", h.GetPopularDestinations)
		destinations.GET("/search", h.SearchTripDestinations)

		// Assistant
		assistant := api.Group("/assistant")
		assistant.GET("/questions", h.GetSuggestedQuestions)
		assistant.POST("/chat", h.AssistantChat)

		// Trips
		trips := api.Group("/trips")
		trips.GET("", h.ListPublicTrips)
		trips.POST("", authed, idempotent, h.CreateTrip)
		trips.GET("/:id", h.GetTrip)
		trips.PUT("/:id", authed, h.UpdateTrip)
		trips.DELETE("/:id", authed, h.DeleteTrip)
		trips.GET("/:id/itinerary.pdf", h.GetTripItineraryPDF)
		trips.POST("/:id/apply", authed, idempotent, h.ApplyToTrip)

		// Buddies
		buddies := api.Group("/buddies", authed)
		buddies.POST("/matches", h.FindBuddyMatches)
		buddies.GET("/matches", h.ListBuddyMatches)
		buddies.POST("/swipes", h.RecordBuddySwipe)

		// Current user
		me := api.Group("/me", authed)
		me.GET("/trips", h.ListMyTrips)
		me.GET("/profile", h.GetMyProfile)
		me.PUT("/profile", h.SaveMyProfile)
		me.GET("/activity", h.ListMyActivity)
		me.GET("/searches", h.ListMySearches)
		me.POST("/searches", h.RecordMySearch)
		api.POST("/activity", authed, h.LogUserActivity)

		// API usage
		usage := api.Group("/usage")
		usage.POST("/track", authed, h.TrackUsage)
		usage.GET("/summary", authed, admin, h.GetUsageSummary)
		usage.POST("/alerts/check", authed, admin, h.CheckUsageAlerts)
		usage.GET("/alerts", authed, admin, h.ListUsageAlerts)
		usage.POST("/alerts", authed, admin, h.CreateUsageAlert)
		usage.DELETE("/alerts/:id", authed, admin, h.DeactivateUsageAlert)
	}

	h.SetRouter(r)
	return r
}
