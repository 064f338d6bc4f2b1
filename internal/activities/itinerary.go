package activities

import (
	"fmt"
	"regexp"
	"strconv"

	"utrippin/internal/domain/models"
)

const (
	DefaultTripDays = 5
	MaxPlannedDays  = 7
)

var firstNumber = regexp.MustCompile(`\d+`)

// PlanDays reads the first number in a free-form duration ("5 days",
// "a 3-night stay"). No number means DefaultTripDays.
func PlanDays(duration string) int {
	m := firstNumber.FindString(duration)
	if m == "" {
		return DefaultTripDays
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return DefaultTripDays
	}
	return n
}

// GenerateDayByDayItinerary spreads activities two per day over at most
// MaxPlannedDays days. Day one is arrival; the last day is departure when it
// falls inside the planned window.
func GenerateDayByDayItinerary(destination, duration string, acts []models.Experience) []models.ItineraryDay {
	days := PlanDays(duration)
	out := []models.ItineraryDay{}

	for day := 1; day <= min(days, MaxPlannedDays); day++ {
		first, second := pair(acts, day)

		switch {
		case day == 1:
			out = append(out, models.ItineraryDay{
				Day:   day,
				Title: fmt.Sprintf("Day %d: Arrival & Welcome", day),
				Morning: &models.ItinerarySlot{
					Time:        "9:00 AM",
					Activity:    "Hotel check-in & city orientation",
					Description: "Settle into your accommodation and get oriented with the city",
				},
				Afternoon: slotFrom("2:00 PM", first, "Local exploration",
					"Explore the local neighborhood and get a feel for the city", "Free"),
				Evening: &models.ItinerarySlot{
					Time:        "7:00 PM",
					Activity:    "Welcome dinner",
					Description: "Enjoy local cuisine at a recommended restaurant",
					Price:       "$40-80 per person",
				},
			})
		case day == days:
			out = append(out, models.ItineraryDay{
				Day:   day,
				Title: fmt.Sprintf("Day %d: Final Day & Departure", day),
				Morning: slotFrom("10:00 AM", first, "Last-minute shopping",
					"Pick up souvenirs and local specialties", "$20-50"),
				Afternoon: &models.ItinerarySlot{
					Time:        "2:00 PM",
					Activity:    "Hotel checkout & departure preparation",
					Description: "Pack up and prepare for your journey home",
				},
				Evening: &models.ItinerarySlot{
					Time:        "6:00 PM",
					Activity:    "Departure",
					Description: "Head to airport or train station for your journey home",
				},
			})
		default:
			out = append(out, models.ItineraryDay{
				Day:   day,
				Title: fmt.Sprintf("Day %d: Adventure & Discovery", day),
				Morning: slotFrom("9:00 AM", first, "Morning exploration",
					"Start your day with exciting activities", "$30-60"),
				Afternoon: slotFrom("2:00 PM", second, "Afternoon adventure",
					"Continue exploring with afternoon activities", "$40-80"),
				Evening: &models.ItinerarySlot{
					Time:        "7:00 PM",
					Activity:    "Local dining experience",
					Description: "Discover local flavors and nightlife",
					Price:       "$35-70 per person",
				},
			})
		}
	}
	return out
}

// pair returns the two activities allotted to a day, nil when exhausted.
func pair(acts []models.Experience, day int) (*models.Experience, *models.Experience) {
	var a, b *models.Experience
	if i := (day - 1) * 2; i < len(acts) {
		a = &acts[i]
	}
	if i := (day-1)*2 + 1; i < len(acts) {
		b = &acts[i]
	}
	return a, b
}

// slotFrom fills a slot from exp; each empty field takes its fallback.
func slotFrom(at string, exp *models.Experience, activity, description, price string) *models.ItinerarySlot {
	slot := &models.ItinerarySlot{Time: at, Activity: activity, Description: description, Price: price}
	if exp == nil {
		return slot
	}
	slot.BookingURL = exp.BookingURL
	if exp.Title != "" {
		slot.Activity = exp.Title
	}
	if exp.Description != "" {
		slot.Description = exp.Description
	}
	if exp.Price != "" {
		slot.Price = exp.Price
	}
	return slot
}

type RestaurantTips struct {
	PriceRange      string   `json:"price_range"`
	Recommendations []string `json:"recommendations"`
}

var priceBands = map[string]string{
	"Budget":   "$-$$",
	"Standard": "$$-$$$",
	"Premium":  "$$$-$$$$",
}

// RestaurantRecommendations gives dining guidance for a budget level.
// Unknown levels are treated as Standard.
func RestaurantRecommendations(budgetLevel string) RestaurantTips {
	band, ok := priceBands[budgetLevel]
	if !ok {
		band = priceBands["Standard"]
	}
	return RestaurantTips{
		PriceRange: band,
		Recommendations: []string{
			"Check local food apps for highly-rated restaurants",
			"Ask hotel concierge for authentic local recommendations",
			"Explore food markets and street food scenes",
			"Make reservations in advance for popular spots",
		},
	}
}
