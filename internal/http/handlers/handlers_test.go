package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utrippin/internal/activities"
	"utrippin/internal/cache"
	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/flights"
	"utrippin/internal/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

type memTrips struct {
	mu    sync.Mutex
	trips map[string]models.Trip
	apps  []models.TripApplication
}

func (m *memTrips) Create(_ context.Context, t models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[t.ID] = t
	return nil
}

func (m *memTrips) GetByID(_ context.Context, id string) (models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return t, sql.ErrNoRows
	}
	t.SpotsAvailable = t.MaxBuddies - t.ParticipantsCount
	return t, nil
}

func (m *memTrips) Update(_ context.Context, t models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[t.ID] = t
	return nil
}

func (m *memTrips) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, id)
	return nil
}

func (m *memTrips) ListByUser(_ context.Context, userID string) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Trip
	for _, t := range m.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrips) ListPublic(_ context.Context, f models.TripFilters) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Trip
	for _, t := range m.trips {
		if t.Public && (f.Destination == "" || strings.Contains(strings.ToLower(t.Destination), strings.ToLower(f.Destination))) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrips) SearchDestinations(_ context.Context, q string, _ int) ([]string, error) {
	return []string{q + " City"}, nil
}

func (m *memTrips) PopularDestinations(_ context.Context, _ int) ([]models.DestinationCount, error) {
	return []models.DestinationCount{{Destination: "Paris", Count: 3}}, nil
}

func (m *memTrips) CreateApplication(_ context.Context, a models.TripApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps = append(m.apps, a)
	return nil
}

type memUsage struct {
	mu      sync.Mutex
	tracked []string
	alerts  []models.UsageAlert
}

func (m *memUsage) TrackCall(_ context.Context, provider, endpoint, month string, _ float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = append(m.tracked, provider+"/"+endpoint+"@"+month)
	return nil
}

func (m *memUsage) MonthlySummary(_ context.Context, month string) ([]models.UsageSummary, error) {
	return []models.UsageSummary{{Provider: "duffel", Endpoint: "offer_requests", MonthYear: month, CurrentUsage: 90, MonthlyLimit: 100, UsagePercentage: 90}}, nil
}

func (m *memUsage) ListAlerts(_ context.Context, _ bool) ([]models.UsageAlert, error) {
	return m.alerts, nil
}

func (m *memUsage) CreateAlert(_ context.Context, a models.UsageAlert) error {
	m.alerts = append(m.alerts, a)
	return nil
}

func (m *memUsage) DeactivateAlert(_ context.Context, id string) error {
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].IsActive = false
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memUsage) MarkAlertSent(_ context.Context, _ string, _ time.Time) error { return nil }

type memInteractions struct {
	mu       sync.Mutex
	searches []models.SearchRecord
	activity []models.UserActivity
}

func (m *memInteractions) RecordSearch(_ context.Context, s models.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, s)
	return nil
}

func (m *memInteractions) LogActivity(_ context.Context, a models.UserActivity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append(m.activity, a)
	return nil
}

func (m *memInteractions) ListActivity(_ context.Context, userID string, _ int) ([]models.UserActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserActivity
	for _, a := range m.activity {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memInteractions) ListSearches(_ context.Context, userID, searchType string, _ int) ([]models.SearchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SearchRecord
	for _, s := range m.searches {
		if s.UserID == userID && (searchType == "" || s.SearchType == searchType) {
			out = append(out, s)
		}
	}
	return out, nil
}

type memAnswers struct{}

func (memAnswers) FindAnswer(context.Context, string) (string, bool, error) { return "", false, nil }
func (memAnswers) SaveAnswer(context.Context, string, string) error         { return nil }

type testEnv struct {
	trips        *memTrips
	usage        *memUsage
	interactions *memInteractions
	router       *gin.Engine
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	catalog, err := flights.NewCatalog("")
	require.NoError(t, err)
	matcher, err := activities.NewMatcher()
	require.NoError(t, err)

	env := &testEnv{
		trips:        &memTrips{trips: map[string]models.Trip{}},
		usage:        &memUsage{},
		interactions: &memInteractions{},
	}
	SetDeps(Deps{
		Offers:       catalog,
		Searches:     cache.NewSearches(nil, time.Hour),
		Matcher:      matcher,
		Trips:        env.trips,
		Usage:        env.usage,
		Interactions: env.interactions,
		Answers:      memAnswers{},
		Now:          func() time.Time { return testNow },
	})
	t.Cleanup(func() { SetDeps(Deps{}) })

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth(middleware.AuthConfig{}))
	r.GET("/api/airports", SearchAirports)
	r.POST("/api/flights/search", SearchFlights)
	r.GET("/api/flights/searches/:id", RefineFlightSearch)
	r.POST("/api/flights/offers/group", GroupFlightOffers)
	r.POST("/api/flights/offers/display", DisplayFlightOffers)
	r.GET("/api/activities", GetActivities)
	r.POST("/api/activities/itinerary", BuildItinerary)
	r.GET("/api/destinations/code", GetDestinationCode)
	r.GET("/api/destinations/hotel-params", GetHotelSearchParams)
	r.GET("/api/destinations/popular", GetPopularDestinations)
	r.GET("/api/assistant/questions", GetSuggestedQuestions)
	r.POST("/api/assistant/chat", AssistantChat)
	r.GET("/api/trips", ListPublicTrips)
	r.POST("/api/trips", CreateTrip)
	r.GET("/api/trips/:id", GetTrip)
	r.PUT("/api/trips/:id", UpdateTrip)
	r.GET("/api/trips/:id/itinerary.pdf", GetTripItineraryPDF)
	r.POST("/api/trips/:id/apply", ApplyToTrip)
	r.GET("/api/usage/summary", GetUsageSummary)
	r.POST("/api/usage/alerts", CreateUsageAlert)
	r.DELETE("/api/usage/alerts/:id", DeactivateUsageAlert)
	r.POST("/api/me/searches", RecordMySearch)
	r.GET("/api/me/searches", ListMySearches)
	r.POST("/api/activity", LogUserActivity)
	env.router = r
	return env
}

func (e *testEnv) do(method, path, user, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestRespondDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ValidationError{Field: "x"}, http.StatusBadRequest},
		{domain.NotFoundError{Resource: "trip"}, http.StatusNotFound},
		{domain.ForbiddenError{Action: "edit"}, http.StatusForbidden},
		{domain.ConflictError{Msg: "dup"}, http.StatusConflict},
		{sql.ErrConnDone, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("request_id", "rid-1")
		RespondDomainError(c, tc.err)
		assert.Equal(t, tc.want, rec.Code)
		assert.Contains(t, rec.Body.String(), `"request_id":"rid-1"`)
	}
}

func TestFlightSearchAndRefine(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodPost, "/api/flights/search", "u1",
		`{"origin":"jfk","destination":"LHR","departure_date":"2025-07-01","passengers":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		SearchID string `json:"search_id"`
		Total    int    `json:"total"`
		Groups   []struct {
			Key string `json:"key"`
		} `json:"groups"`
	}
	decode(t, rec, &res)
	require.NotEmpty(t, res.SearchID)
	assert.Equal(t, 4, res.Total)
	assert.NotEmpty(t, res.Groups)
	require.Len(t, env.interactions.searches, 1)
	assert.Equal(t, "flight", env.interactions.searches[0].SearchType)
	assert.Contains(t, env.usage.tracked, "duffel/offer_requests@2025-06")

	rec = env.do(http.MethodGet, "/api/flights/searches/"+res.SearchID+"?airlines=BA", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var refined struct {
		Matched int `json:"matched"`
		Total   int `json:"total"`
	}
	decode(t, rec, &refined)
	assert.Equal(t, 4, refined.Total)
	assert.Less(t, refined.Matched, 4)

	rec = env.do(http.MethodGet, "/api/flights/searches/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/api/flights/search", "", `{"origin":"JFK","destination":"JFK","departure_date":"2025-07-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/flights/search", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisplayOffers(t *testing.T) {
	env := setup(t)
	body := `{"offers":[{"id":"off_1","total_amount":"99.00","total_currency":"USD","slices":[]}]}`
	rec := env.do(http.MethodPost, "/api/flights/offers/display", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"offer_id":"off_1"`)
}

func TestGroupOffersIgnoresNonFinitePrices(t *testing.T) {
	env := setup(t)
	body := `{"offers":[{"id":"off_nan","total_amount":"NaN","total_currency":"USD","slices":[]}]}`
	rec := env.do(http.MethodPost, "/api/flights/offers/group", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.String())

	var res struct {
		Total   int `json:"total"`
		Matched int `json:"matched"`
	}
	decode(t, rec, &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 0, res.Matched)
}

func TestAirportsAndDestinations(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodGet, "/api/airports?q=lhr", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"LHR"`)

	rec = env.do(http.MethodGet, "/api/destinations/code?name=Paris", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"exact"`)

	rec = env.do(http.MethodGet, "/api/destinations/code", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/destinations/hotel-params?destination=Rome", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p struct {
		CheckIn  string `json:"check_in_date"`
		CheckOut string `json:"check_out_date"`
		Adults   int    `json:"adults"`
	}
	decode(t, rec, &p)
	assert.Equal(t, "2025-06-22", p.CheckIn)
	assert.Equal(t, "2025-06-24", p.CheckOut)
	assert.Equal(t, 2, p.Adults)

	rec = env.do(http.MethodGet, "/api/destinations/hotel-params", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/destinations/popular", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Paris")

	rec = env.do(http.MethodGet, "/api/assistant/questions?location=Paris", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "planner")
}

func TestActivitiesAndItinerary(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodGet, "/api/activities?destination=Paris,%20France&limit=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var acts struct {
		Total int `json:"total"`
	}
	decode(t, rec, &acts)
	assert.LessOrEqual(t, acts.Total, 3)

	rec = env.do(http.MethodGet, "/api/activities", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/activities/itinerary", "", `{"destination":"Tokyo","duration":"3 days","budget_level":"Premium"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var it struct {
		Days        int `json:"days"`
		Restaurants struct {
			PriceRange string `json:"price_range"`
		} `json:"restaurants"`
	}
	decode(t, rec, &it)
	assert.Equal(t, 3, it.Days)
	assert.Equal(t, "$$$-$$$$", it.Restaurants.PriceRange)
}

func TestChatCommonAnswer(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodPost, "/api/assistant/chat", "", `{"currentPrompt":"Hello!","history":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"common_cache"`)

	// uncached prompt without a model configured
	rec = env.do(http.MethodPost, "/api/assistant/chat", "", `{"prompt":"plan three days in Lisbon with kids"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = env.do(http.MethodPost, "/api/assistant/chat", "", `{"prompt":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTripLifecycle(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodPost, "/api/trips", "owner", `{"title":"Rome week","destination":"Rome","start_date":"2025-09-01","end_date":"2025-09-07"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var trip models.Trip
	decode(t, rec, &trip)
	require.NotEmpty(t, trip.ID)
	assert.Equal(t, 7, trip.DurationDays)
	assert.Equal(t, "planning", trip.Status)

	rec = env.do(http.MethodGet, "/api/trips?destination=rom", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = env.do(http.MethodPut, "/api/trips/"+trip.ID, "intruder", `{"title":"mine now"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPut, "/api/trips/"+trip.ID, "owner", `{"title":"Rome ten days"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rome ten days")

	rec = env.do(http.MethodPost, "/api/trips/"+trip.ID+"/apply", "owner", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/trips/"+trip.ID+"/apply", "buddy", `{"message":"count me in"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, env.trips.apps, 1)
	assert.Equal(t, "pending", env.trips.apps[0].Status)

	rec = env.do(http.MethodGet, "/api/trips/"+trip.ID+"/itinerary.pdf", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ITINERARY_Rome_2025-09-01.pdf")

	rec = env.do(http.MethodGet, "/api/trips/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsageAlertsEndpoints(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodGet, "/api/usage/summary", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"month_year":"2025-06"`)

	rec = env.do(http.MethodGet, "/api/usage/summary?month=2025-13", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/usage/alerts", "", `{"provider":"duffel","endpoint":"offer_requests","threshold_percentage":80,"alert_email":"ops@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var alert models.UsageAlert
	decode(t, rec, &alert)

	rec = env.do(http.MethodPost, "/api/usage/alerts", "", `{"provider":"duffel","endpoint":"offer_requests","threshold_percentage":80,"alert_email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/api/usage/alerts/"+alert.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodDelete, "/api/usage/alerts/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInteractionEndpoints(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodPost, "/api/me/searches", "u1", `{"search_type":"hotel","destination":"Rome","rooms":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/me/searches", "u1", `{"search_type":"boat","destination":"Rome"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/me/searches?type=hotel", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rome")

	rec = env.do(http.MethodPost, "/api/activity", "u1", `{"activity_type":"viewed_trip","activity_data":{"trip_id":"t1"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.interactions.activity, 1)
	assert.Equal(t, "viewed_trip", env.interactions.activity[0].ActivityType)
}
