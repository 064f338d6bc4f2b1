package destinations

import (
	"strings"
	"time"

	"utrippin/internal/utils"
)

const (
	defaultLeadDays = 7
	defaultNights   = 2
	globalArea      = "Global"
)

// HotelSearchParams is a prefilled hotel search.
type HotelSearchParams struct {
	Destination  string   `json:"destination"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	Rooms        int      `json:"rooms"`
	Category     string   `json:"category,omitempty"`
	DealType     string   `json:"deal_type,omitempty"`
	PriceRange   *[2]int  `json:"price_range,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	HotelType    string   `json:"hotel_type,omitempty"`
}

type preset struct {
	destinations []string
	amenities    []string
	priceRange   *[2]int
	hotelType    string
}

var categoryPresets = map[string]preset{
	"castle": {
		destinations: []string{"Scotland", "Ireland", "France", "Germany", "England"},
		hotelType:    "historic",
	},
	"pool": {
		destinations: []string{globalArea},
		amenities:    []string{"pool", "outdoor-pool"},
	},
	"waterpark": {
		destinations: []string{"Orlando", "Dubai", "Singapore", "Bahamas", "Costa Rica"},
		amenities:    []string{"waterpark", "family-activities", "kids-club"},
	},
	"spa hotels": {
		destinations: []string{globalArea},
		amenities:    []string{"spa", "wellness", "massage", "fitness"},
	},
	"ocean view": {
		destinations: []string{"Maldives", "Hawaii", "Santorini", "Bali", "Cabo", "Miami"},
		amenities:    []string{"beach-access", "ocean-view"},
	},
}

var hotelTypePresets = map[string]preset{
	"budget hotels": {
		destinations: []string{globalArea},
		amenities:    []string{"wifi", "reception-24h"},
		priceRange:   &[2]int{20, 80},
		hotelType:    "budget",
	},
	"business hotels": {
		destinations: []string{globalArea},
		amenities:    []string{"business-center", "meeting-rooms", "airport-shuttle", "wifi"},
		priceRange:   &[2]int{80, 150},
		hotelType:    "business",
	},
	"luxury hotels": {
		destinations: []string{globalArea},
		amenities:    []string{"concierge", "fine-dining", "spa", "room-service"},
		priceRange:   &[2]int{200, 500},
		hotelType:    "luxury",
	},
	"beach resorts": {
		destinations: []string{"Maldives", "Hawaii", "Bahamas", "Cabo", "Miami", "Barbados"},
		amenities:    []string{"beach-access", "water-sports", "all-inclusive", "pool"},
		priceRange:   &[2]int{100, 300},
		hotelType:    "resort",
	},
}

// DefaultStay is check-in a week from now for two nights.
func DefaultStay(now time.Time) (checkIn, checkOut string) {
	in := now.AddDate(0, 0, defaultLeadDays)
	return utils.FormatDate(in), utils.FormatDate(in.AddDate(0, 0, defaultNights))
}

func baseParams(destination string, now time.Time) HotelSearchParams {
	in, out := DefaultStay(now)
	return HotelSearchParams{
		Destination:  destination,
		CheckInDate:  in,
		CheckOutDate: out,
		Adults:       2,
		Rooms:        1,
	}
}

func DestinationSearchParams(destination string, now time.Time) HotelSearchParams {
	return baseParams(destination, now)
}

func DealSearchParams(destination, dealType string, priceRange *[2]int, now time.Time) HotelSearchParams {
	p := baseParams(destination, now)
	p.DealType = dealType
	p.PriceRange = priceRange
	return p
}

// CategorySearchParams points a themed search ("castle", "ocean view") at
// the category's lead destination, keeping destination for unknown ones.
func CategorySearchParams(destination, category string, now time.Time) HotelSearchParams {
	p := baseParams(destination, now)
	p.Category = category
	if c, ok := categoryPresets[strings.ToLower(category)]; ok {
		p.Destination = c.destinations[0]
		p.Amenities = c.amenities
		p.HotelType = c.hotelType
	}
	return p
}

// HotelTypeSearchParams builds a search for a hotel style. Unknown styles
// search globally and keep the given type.
func HotelTypeSearchParams(hotelType string, now time.Time) HotelSearchParams {
	t, ok := hotelTypePresets[strings.ToLower(hotelType)]
	if !ok {
		p := baseParams(globalArea, now)
		p.HotelType = hotelType
		return p
	}
	p := baseParams(t.destinations[0], now)
	p.HotelType = t.hotelType
	p.Amenities = t.amenities
	p.PriceRange = t.priceRange
	return p
}
