package models

import "time"

// TravelerProfile is the public part of a user used for buddy matching.
type TravelerProfile struct {
	ID                    string   `json:"id"`
	Email                 string   `json:"email"`
	Age                   int      `json:"age,omitempty"`
	Bio                   string   `json:"bio,omitempty"`
	Location              string   `json:"location,omitempty"`
	ProfilePhotoURL       string   `json:"profile_photo_url,omitempty"`
	PreferredDestinations []string `json:"preferred_destinations"`
	TravelStyle           string   `json:"travel_style,omitempty"`
	Interests             []string `json:"interests"`
	LanguagesSpoken       []string `json:"languages_spoken"`
	BudgetMin             float64  `json:"budget_min,omitempty"`
	BudgetMax             float64  `json:"budget_max,omitempty"`
	PublicProfile         bool     `json:"public_profile"`
	Verified              bool     `json:"verified"`
}

// Swipe is one like/pass decision.
type Swipe struct {
	SwiperID  string    `json:"swiper_id"`
	SwipedID  string    `json:"swiped_id"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

// BuddyMatch is a mutual like between two users.
type BuddyMatch struct {
	ID        string    `json:"id"`
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}
