package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"utrippin/internal/cache"
	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/flights"
)

func testOffer(id, amount, airline, code, departing string) models.Offer {
	jfk := &models.Place{IATACode: "JFK"}
	lhr := &models.Place{IATACode: "LHR"}
	return models.Offer{
		ID:            id,
		TotalAmount:   amount,
		TotalCurrency: "USD",
		CabinClass:    "economy",
		Slices: []models.Slice{{
			Origin:      jfk,
			Destination: lhr,
			Duration:    "PT7H10M",
			Segments: []models.Segment{{
				Origin:           jfk,
				Destination:      lhr,
				DepartingAt:      departing,
				ArrivingAt:       "2025-07-02T06:10:00",
				MarketingCarrier: &models.Carrier{Name: airline, IATACode: code},
			}},
		}},
	}
}

func searchOffers() []models.Offer {
	return []models.Offer{
		testOffer("off_1", "640.00", "British Airways", "BA", "2025-07-01T18:00:00"),
		testOffer("off_2", "520.00", "British Airways", "BA", "2025-07-01T18:00:00"),
		testOffer("off_3", "480.00", "Virgin Atlantic", "VS", "2025-07-01T09:30:00"),
	}
}

func TestNormalizeSearchRequest(t *testing.T) {
	req, err := NormalizeSearchRequest(models.FlightSearchRequest{Origin: " jfk", Destination: "lhr", DepartureDate: "2025-07-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Origin != "JFK" || req.Passengers != 1 || req.CabinClass != "economy" {
		t.Fatalf("defaults not applied: %+v", req)
	}

	bad := []models.FlightSearchRequest{
		{Origin: "JF", Destination: "LHR", DepartureDate: "2025-07-01"},
		{Origin: "JFK", Destination: "JFK", DepartureDate: "2025-07-01"},
		{Origin: "JFK", Destination: "LHR", DepartureDate: "07/01/2025"},
		{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-07-01", ReturnDate: "2025-06-30"},
		{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-07-01", Passengers: -1},
		{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-07-01", CabinClass: "cargo"},
	}
	for _, r := range bad {
		if _, err := NormalizeSearchRequest(r); !domain.IsValidation(err) {
			t.Fatalf("expected validation error for %+v, got %v", r, err)
		}
	}
}

func TestFlightServiceSearchCachesAndRefines(t *testing.T) {
	src := &staticSource{offers: searchOffers()}
	store := cache.NewSearches(nil, time.Hour)
	history := &memHistory{}
	usage := &memUsage{}
	svc := FlightService{Source: src, Searches: store, History: history, Usage: usage, Now: fixedClock, NewID: sequence("s")}

	res, err := svc.Search(context.Background(), "u1", models.FlightSearchRequest{Origin: "jfk", Destination: "lhr", DepartureDate: "2025-07-01"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res.SearchID != "s1" || res.ExpiresAt == nil || !res.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("unexpected search id/expiry: %q %v", res.SearchID, res.ExpiresAt)
	}
	if res.Total != 3 || len(res.Groups) != 2 {
		t.Fatalf("expected 3 offers in 2 groups, got %d/%d", res.Total, len(res.Groups))
	}
	if res.Groups[0].LowestPrice != 480 {
		t.Fatalf("groups not ordered by price: %+v", res.Groups[0].Key)
	}
	if src.got.Origin != "JFK" {
		t.Fatalf("source got unnormalized request: %+v", src.got)
	}
	if len(history.records) != 1 || history.records[0].UserID != "u1" || history.records[0].SearchType != "flight" {
		t.Fatalf("history not recorded: %+v", history.records)
	}
	var payload struct {
		SearchID string `json:"search_id"`
		Origin   string `json:"origin"`
		Offers   int    `json:"offers"`
	}
	if err := json.Unmarshal(history.records[0].SearchData, &payload); err != nil {
		t.Fatalf("search data not json: %v", err)
	}
	if payload.SearchID != "s1" || payload.Origin != "JFK" || payload.Offers != 3 {
		t.Fatalf("unexpected search data: %+v", payload)
	}
	if usage.calls["duffel/offer_requests/2025-06"] != 1 {
		t.Fatalf("usage not tracked: %v", usage.calls)
	}

	refined, err := svc.Refine(context.Background(), res.SearchID, flights.FilterCriteria{Airlines: []string{"British Airways"}})
	if err != nil {
		t.Fatalf("Refine error: %v", err)
	}
	if refined.Total != 3 || refined.Matched != 2 || len(refined.Groups) != 1 {
		t.Fatalf("unexpected refine result: total=%d matched=%d groups=%d", refined.Total, refined.Matched, len(refined.Groups))
	}
	if len(refined.FilterOptions.Airlines) != 2 {
		t.Fatalf("filter options should describe the whole search: %+v", refined.FilterOptions)
	}
}

func TestFlightServiceRefineUnknownSearch(t *testing.T) {
	svc := FlightService{Searches: cache.NewSearches(nil, time.Minute)}
	_, err := svc.Refine(context.Background(), "missing", flights.FilterCriteria{})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFlightServiceSourceFailure(t *testing.T) {
	svc := FlightService{Source: &staticSource{err: errors.New("vendor down")}}
	_, err := svc.Search(context.Background(), "", models.FlightSearchRequest{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-07-01"})
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestFlightServiceGroupOffers(t *testing.T) {
	res := FlightService{}.GroupOffers(context.Background(), searchOffers(), flights.FilterCriteria{PriceRange: [2]float64{0, 500}})
	if res.SearchID != "" || res.Matched != 1 || len(res.Groups) != 1 {
		t.Fatalf("unexpected grouping: %+v", res)
	}
}
