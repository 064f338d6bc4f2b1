package models

import (
	"encoding/json"
	"time"
)

const (
	TripStatusPlanning  = "planning"
	TripStatusBooked    = "booked"
	TripStatusCompleted = "completed"
	TripStatusCancelled = "cancelled"

	DefaultMaxBuddies = 4
)

// Trip is a user's planned trip; public trips are listed for buddy matching.
type Trip struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Title             string          `json:"title"`
	Destination       string          `json:"destination"`
	Country           string          `json:"country,omitempty"`
	StartDate         string          `json:"start_date,omitempty"`
	EndDate           string          `json:"end_date,omitempty"`
	DurationDays      int             `json:"duration_days,omitempty"`
	Budget            *float64        `json:"budget,omitempty"`
	Currency          string          `json:"currency,omitempty"`
	TripType          string          `json:"trip_type,omitempty"`
	Status            string          `json:"status"`
	Public            bool            `json:"public"`
	LookingForBuddies bool            `json:"looking_for_buddies"`
	MaxBuddies        int             `json:"max_buddies"`
	AIGenerated       bool            `json:"ai_generated"`
	AIPrompt          string          `json:"ai_prompt,omitempty"`
	Itinerary         json.RawMessage `json:"itinerary_json,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	ParticipantsCount int `json:"participants_count"`
	SpotsAvailable    int `json:"spots_available"`
}

// TripFilters narrows public trip listings. Zero values mean no constraint.
type TripFilters struct {
	Destination string
	Country     string
	StartDate   string
	EndDate     string
	BudgetMin   *float64
	BudgetMax   *float64
	TripTypes   []string
	Limit       int
	Offset      int
}

// TripApplication is a buddy request against someone else's trip.
type TripApplication struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	FromUser  string    `json:"from_user_id"`
	ToUser    string    `json:"to_user_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

// ItineraryDay is one day of a stored itinerary.
type ItineraryDay struct {
	Day       int            `json:"day"`
	Title     string         `json:"title"`
	Morning   *ItinerarySlot `json:"morning,omitempty"`
	Afternoon *ItinerarySlot `json:"afternoon,omitempty"`
	Evening   *ItinerarySlot `json:"evening,omitempty"`
}

type ItinerarySlot struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
	Price       string `json:"price,omitempty"`
	BookingURL  string `json:"bookingUrl,omitempty"`
}
