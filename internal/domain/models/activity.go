package models

import (
	"encoding/json"
	"time"
)

// Experience is one bookable activity from the static catalogue.
type Experience struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	BookingURL  string `json:"bookingUrl"`
}

// UserActivity is an interaction log entry.
type UserActivity struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	ActivityType string          `json:"activity_type"`
	ActivityData json.RawMessage `json:"activity_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SearchRecord is one row of a user's search history.
type SearchRecord struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id,omitempty"`
	SearchType   string          `json:"search_type"`
	Destination  string          `json:"destination"`
	CheckInDate  string          `json:"check_in_date,omitempty"`
	CheckOutDate string          `json:"check_out_date,omitempty"`
	Travelers    int             `json:"travelers,omitempty"`
	Rooms        int             `json:"rooms,omitempty"`
	SearchData   json.RawMessage `json:"search_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
