package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"utrippin/internal/activities"
	"utrippin/internal/domain/models"
)

func TestDocsServiceGenerateItinerary(t *testing.T) {
	days, _ := json.Marshal([]models.ItineraryDay{{
		Day:     1,
		Title:   "Arrival in Lisbon",
		Morning: &models.ItinerarySlot{Time: "9:00 AM", Activity: "Check in", Description: "Drop bags at the hotel"},
		Evening: &models.ItinerarySlot{Time: "7:00 PM", Activity: "Fado dinner", Price: "$45"},
	}})
	budget := 1500.0
	loader := func(_ context.Context, viewer, id string) (models.Trip, error) {
		return models.Trip{ID: id, UserID: viewer, Title: "Lisbon", Destination: "Lisbon", Country: "Portugal",
			StartDate: "2025-06-01", Budget: &budget, Currency: "EUR", Itinerary: days}, nil
	}

	pdf, filename, err := DocsService{Loader: loader}.GenerateItinerary(context.Background(), "u1", "trip-1")
	if err != nil {
		t.Fatalf("GenerateItinerary returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "ITINERARY_Lisbon_2025-06-01.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestDocsServiceDraftsMissingItinerary(t *testing.T) {
	matcher, err := activities.NewMatcher()
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	svc := DocsService{
		Matcher: matcher,
		Loader: func(_ context.Context, _, id string) (models.Trip, error) {
			return models.Trip{ID: id, Title: "Miami", Destination: "Miami, FL", DurationDays: 3}, nil
		},
	}

	data, err := svc.loadItineraryDocData(context.Background(), "u1", "trip-2")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(data.Days) != 3 {
		t.Fatalf("expected 3 drafted days, got %d", len(data.Days))
	}
	if data.Days[0].Morning == nil || !strings.Contains(data.Days[0].Morning.Description, "Miami") {
		t.Fatalf("unexpected first day %+v", data.Days[0])
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart(" Paris, France "); got != "Paris__France" {
		t.Fatalf("unexpected %q", got)
	}
	if got := safeFilenamePart(""); got != "NA" {
		t.Fatalf("unexpected %q", got)
	}
}
