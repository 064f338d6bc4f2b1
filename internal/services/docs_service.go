package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"utrippin/internal/activities"
	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

// DocsService renders a trip itinerary as PDF.
type DocsService struct {
	Trips     TripService
	Matcher   *activities.Matcher
	RequestID string
	Loader    func(ctx context.Context, viewerID, tripID string) (models.Trip, error)
}

type itineraryDocData struct {
	Trip models.Trip
	Days []models.ItineraryDay
}

func (s DocsService) GenerateItinerary(ctx context.Context, viewerID, tripID string) ([]byte, string, error) {
	data, err := s.loadItineraryDocData(ctx, viewerID, tripID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_itinerary", fmt.Sprintf("trip_id=%s days=%d", tripID, len(data.Days)))
	return buildItineraryPDF(data)
}

func (s DocsService) loadItineraryDocData(ctx context.Context, viewerID, tripID string) (itineraryDocData, error) {
	load := s.Loader
	if load == nil {
		load = s.Trips.Get
	}
	t, err := load(ctx, viewerID, tripID)
	if err != nil {
		return itineraryDocData{}, err
	}

	out := itineraryDocData{Trip: t}
	if len(t.Itinerary) > 0 {
		if err := json.Unmarshal(t.Itinerary, &out.Days); err != nil {
			utils.LogFailure(s.RequestID, "docs", "decode_itinerary", err)
			out.Days = nil
		}
	}
	if len(out.Days) == 0 {
		// no stored plan: draft one from the activity catalogue
		var acts []models.Experience
		if s.Matcher != nil {
			acts = s.Matcher.FindActivitiesForDestination(t.Destination, activities.DefaultMaxResults)
		}
		duration := ""
		if t.DurationDays > 0 {
			duration = strconv.Itoa(t.DurationDays) + " days"
		}
		out.Days = activities.GenerateDayByDayItinerary(t.Destination, duration, acts)
	}
	return out, nil
}

func buildItineraryPDF(d itineraryDocData) ([]byte, string, error) {
	t := d.Trip
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(safe(t.Title, "Itinerary"), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, safe(t.Title, "New Trip"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Destination : %s", destinationLine(t)),
		fmt.Sprintf("Dates       : %s - %s", safe(t.StartDate, "-"), safe(t.EndDate, "-")),
		fmt.Sprintf("Duration    : %d days", len(d.Days)),
		fmt.Sprintf("Status      : %s", safe(t.Status, "-")),
	}
	if t.Budget != nil {
		lines = append(lines, fmt.Sprintf("Budget      : %s", utils.FormatPrice(*t.Budget, t.Currency)))
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	for _, day := range d.Days {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Day %d: %s", day.Day, day.Title))
		pdf.Ln(9)
		for _, slot := range []*models.ItinerarySlot{day.Morning, day.Afternoon, day.Evening} {
			if slot == nil {
				continue
			}
			pdf.SetFont("Helvetica", "B", 11)
			head := fmt.Sprintf("%s  %s", safe(slot.Time, "-"), safe(slot.Activity, "-"))
			if slot.Price != "" {
				head += " (" + slot.Price + ")"
			}
			pdf.Cell(0, 6, head)
			pdf.Ln(6)
			if slot.Description != "" {
				pdf.SetFont("Helvetica", "", 10)
				pdf.MultiCell(0, 5, slot.Description, "", "", false)
			}
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Prices and opening hours may change. Confirm bookings with each provider before travel.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ITINERARY_%s_%s.pdf", safeFilenamePart(t.Destination), safeFilenamePart(t.StartDate))
	return buf.Bytes(), filename, nil
}

func destinationLine(t models.Trip) string {
	if t.Country != "" {
		return safe(t.Destination, "TBD") + ", " + t.Country
	}
	return safe(t.Destination, "TBD")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", ",", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
