package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"utrippin/internal/cache"
	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/flights"
	"utrippin/internal/metrics"
	"utrippin/internal/tracing"
	"utrippin/internal/utils"
)

const (
	flightProvider = "duffel"
	flightEndpoint = "offer_requests"
)

var iataCode = regexp.MustCompile(`^[A-Z]{3}$`)

var cabinClasses = map[string]bool{
	"economy":         true,
	"premium_economy": true,
	"business":        true,
	"first":           true,
}

// OfferSource answers a flight search.
type OfferSource interface {
	Search(ctx context.Context, req models.FlightSearchRequest) ([]models.Offer, error)
}

type SearchStore interface {
	Put(ctx context.Context, e cache.SearchEntry) error
	Get(ctx context.Context, id string) (cache.SearchEntry, error)
}

type SearchRecorder interface {
	RecordSearch(ctx context.Context, s models.SearchRecord) error
}

type FlightService struct {
	Source    OfferSource
	Searches  SearchStore
	History   SearchRecorder
	Usage     UsageRecorder
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

// SearchResult is the grouped view of one search, possibly refined.
type SearchResult struct {
	SearchID      string                  `json:"search_id,omitempty"`
	Groups        []flights.GroupedFlight `json:"groups"`
	FilterOptions flights.FilterOptions   `json:"filter_options"`
	Total         int                     `json:"total"`
	Matched       int                     `json:"matched"`
	ExpiresAt     *time.Time              `json:"expires_at,omitempty"`
}

// NormalizeSearchRequest upper-cases codes, applies defaults and validates.
func NormalizeSearchRequest(req models.FlightSearchRequest) (models.FlightSearchRequest, error) {
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	req.DepartureDate = strings.TrimSpace(req.DepartureDate)
	req.ReturnDate = strings.TrimSpace(req.ReturnDate)
	req.CabinClass = strings.ToLower(strings.TrimSpace(req.CabinClass))

	if !iataCode.MatchString(req.Origin) {
		return req, domain.ValidationError{Field: "origin", Msg: "must be a 3-letter IATA code"}
	}
	if !iataCode.MatchString(req.Destination) {
		return req, domain.ValidationError{Field: "destination", Msg: "must be a 3-letter IATA code"}
	}
	if req.Origin == req.Destination {
		return req, domain.ValidationError{Field: "destination", Msg: "must differ from origin"}
	}
	dep, err := utils.ParseDate(req.DepartureDate)
	if err != nil {
		return req, domain.ValidationError{Field: "departure_date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if req.ReturnDate != "" {
		ret, err := utils.ParseDate(req.ReturnDate)
		if err != nil {
			return req, domain.ValidationError{Field: "return_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
		if ret.Before(dep) {
			return req, domain.ValidationError{Field: "return_date", Msg: "must not be before departure_date"}
		}
	}
	if req.Passengers == 0 {
		req.Passengers = 1
	}
	if req.Passengers < 1 || req.Passengers > 9 {
		return req, domain.ValidationError{Field: "passengers", Msg: "must be between 1 and 9"}
	}
	if req.CabinClass == "" {
		req.CabinClass = "economy"
	}
	if !cabinClasses[req.CabinClass] {
		return req, domain.ValidationError{Field: "cabin_class", Msg: "unknown cabin class"}
	}
	return req, nil
}

// Search runs a new search, caches its offers and returns them grouped.
func (s FlightService) Search(ctx context.Context, userID string, req models.FlightSearchRequest) (SearchResult, error) {
	ctx, span := tracing.Start(ctx, "flights.search")
	defer span.End()

	req, err := NormalizeSearchRequest(req)
	if err != nil {
		metrics.FlightSearches.WithLabelValues("search", "invalid").Inc()
		return SearchResult{}, err
	}
	span.SetAttributes(
		attribute.String("flight.origin", req.Origin),
		attribute.String("flight.destination", req.Destination),
		attribute.Int("flight.passengers", req.Passengers),
	)

	if s.Source == nil {
		return SearchResult{}, domain.InternalError{Msg: "flight source is not configured"}
	}
	offers, err := s.Source.Search(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "source failed")
		metrics.FlightSearches.WithLabelValues("search", "error").Inc()
		return SearchResult{}, domain.InternalError{Msg: "flight search failed", Err: err}
	}
	s.trackUsage(ctx)

	now := nowOr(s.Now)
	entry := cache.SearchEntry{ID: idOr(s.NewID), Request: req, Offers: offers, CreatedAt: now}
	if s.Searches != nil {
		if err := s.Searches.Put(ctx, entry); err != nil {
			utils.LogFailure(s.RequestID, "flights", "cache_search", err)
			entry.ID = ""
		}
	} else {
		entry.ID = ""
	}
	s.recordHistory(ctx, userID, entry)

	result := buildResult(offers, flights.FilterCriteria{})
	result.SearchID = entry.ID
	if entry.ID != "" {
		if ttl, ok := s.Searches.(interface{ TTL() time.Duration }); ok {
			exp := now.Add(ttl.TTL())
			result.ExpiresAt = &exp
		}
	}

	span.SetAttributes(attribute.Int("flight.offers", len(offers)), attribute.Int("flight.groups", len(result.Groups)))
	metrics.FlightSearches.WithLabelValues("search", "ok").Inc()
	metrics.FlightOffersReturned.Observe(float64(len(offers)))
	utils.LogEvent(s.RequestID, "flights", "search",
		fmt.Sprintf("%s-%s %s offers=%d groups=%d", req.Origin, req.Destination, req.DepartureDate, len(offers), len(result.Groups)))
	return result, nil
}

// Refine filters the offers of an earlier search.
func (s FlightService) Refine(ctx context.Context, searchID string, criteria flights.FilterCriteria) (SearchResult, error) {
	ctx, span := tracing.Start(ctx, "flights.refine")
	defer span.End()
	span.SetAttributes(attribute.String("flight.search_id", searchID))

	if strings.TrimSpace(searchID) == "" {
		return SearchResult{}, domain.ValidationError{Field: "search_id", Msg: "is required"}
	}
	if s.Searches == nil {
		return SearchResult{}, domain.NotFoundError{Resource: "flight search"}
	}
	entry, err := s.Searches.Get(ctx, searchID)
	if errors.Is(err, cache.ErrMiss) {
		metrics.FlightSearches.WithLabelValues("refine", "expired").Inc()
		return SearchResult{}, domain.NotFoundError{Resource: "flight search", Err: err}
	}
	if err != nil {
		span.RecordError(err)
		metrics.FlightSearches.WithLabelValues("refine", "error").Inc()
		return SearchResult{}, domain.InternalError{Msg: "failed to load search", Err: err}
	}

	result := buildResult(entry.Offers, criteria)
	result.SearchID = entry.ID
	metrics.FlightSearches.WithLabelValues("refine", "ok").Inc()
	return result, nil
}

// GroupOffers is the stateless variant for clients that already hold offers.
func (s FlightService) GroupOffers(ctx context.Context, offers []models.Offer, criteria flights.FilterCriteria) SearchResult {
	_, span := tracing.Start(ctx, "flights.group")
	defer span.End()
	metrics.FlightSearches.WithLabelValues("group", "ok").Inc()
	return buildResult(offers, criteria)
}

func buildResult(offers []models.Offer, criteria flights.FilterCriteria) SearchResult {
	filtered := flights.FilterOffers(offers, criteria)
	return SearchResult{
		Groups:        flights.GroupOffersByFlight(filtered),
		FilterOptions: flights.FilterOptionsFor(offers),
		Total:         len(offers),
		Matched:       len(filtered),
	}
}

func (s FlightService) trackUsage(ctx context.Context) {
	if s.Usage == nil {
		return
	}
	if err := s.Usage.TrackCall(ctx, flightProvider, flightEndpoint, utils.MonthKey(nowOr(s.Now)), 0); err != nil {
		utils.LogFailure(s.RequestID, "flights", "track_usage", err)
	}
}

func (s FlightService) recordHistory(ctx context.Context, userID string, e cache.SearchEntry) {
	if s.History == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"search_id":   e.ID,
		"origin":      e.Request.Origin,
		"cabin_class": e.Request.CabinClass,
		"offers":      len(e.Offers),
	})
	if err != nil {
		utils.LogFailure(s.RequestID, "flights", "record_search", err)
		return
	}
	rec := models.SearchRecord{
		ID:           idOr(s.NewID),
		UserID:       userID,
		SearchType:   "flight",
		Destination:  e.Request.Destination,
		CheckInDate:  e.Request.DepartureDate,
		CheckOutDate: e.Request.ReturnDate,
		Travelers:    e.Request.Passengers,
		SearchData:   data,
		CreatedAt:    e.CreatedAt,
	}
	if err := s.History.RecordSearch(ctx, rec); err != nil {
		utils.LogFailure(s.RequestID, "flights", "record_search", err)
	}
}
