// Package buddies scores how well two travellers fit together and turns the
// raw scores into ranked, explained matches.
package buddies

import (
	"math"
	"strings"

	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

// factor weights, summing to 1
const (
	weightDestinations = 0.25
	weightInterests    = 0.20
	weightLanguages    = 0.15
	weightAge          = 0.15
	weightTravelStyle  = 0.10
	weightBudget       = 0.10
	weightLocation     = 0.05
)

// Breakdown holds each factor's weighted contribution to the score.
type Breakdown struct {
	Destinations float64 `json:"destinations"`
	Interests    float64 `json:"interests"`
	Languages    float64 `json:"languages"`
	Age          float64 `json:"age"`
	TravelStyle  float64 `json:"travel_style"`
	Budget       float64 `json:"budget"`
	Location     float64 `json:"location"`
}

func (b Breakdown) Total() float64 {
	return b.Destinations + b.Interests + b.Languages + b.Age + b.TravelStyle + b.Budget + b.Location
}

type Match struct {
	Profile            models.TravelerProfile `json:"profile"`
	Score              float64                `json:"match_score"`
	Breakdown          Breakdown              `json:"score_breakdown"`
	CommonDestinations []string               `json:"common_destinations"`
	CommonInterests    []string               `json:"common_interests"`
	CommonLanguages    []string               `json:"common_languages"`
	AgeDifference      *int                   `json:"age_difference,omitempty"`
}

// Score compares candidate against user. maxAgeDiff sets where the age
// factor reaches zero; values <= 0 use DefaultMaxAgeDiff.
func Score(user, candidate models.TravelerProfile, maxAgeDiff int) Match {
	if maxAgeDiff <= 0 {
		maxAgeDiff = DefaultMaxAgeDiff
	}

	m := Match{
		Profile:            candidate,
		CommonDestinations: utils.IntersectFold(candidate.PreferredDestinations, user.PreferredDestinations),
		CommonInterests:    utils.IntersectFold(candidate.Interests, user.Interests),
		CommonLanguages:    utils.IntersectFold(candidate.LanguagesSpoken, user.LanguagesSpoken),
	}

	b := &m.Breakdown
	b.Destinations = weightDestinations * overlap(len(m.CommonDestinations), user.PreferredDestinations, candidate.PreferredDestinations)
	b.Interests = weightInterests * overlap(len(m.CommonInterests), user.Interests, candidate.Interests)
	b.Languages = weightLanguages * overlap(len(m.CommonLanguages), user.LanguagesSpoken, candidate.LanguagesSpoken)

	if user.Age > 0 && candidate.Age > 0 {
		diff := user.Age - candidate.Age
		if diff < 0 {
			diff = -diff
		}
		m.AgeDifference = &diff
		b.Age = weightAge * math.Max(0, 1-float64(diff)/float64(maxAgeDiff))
	}

	if user.TravelStyle != "" && strings.EqualFold(strings.TrimSpace(user.TravelStyle), strings.TrimSpace(candidate.TravelStyle)) {
		b.TravelStyle = weightTravelStyle
	}
	b.Budget = weightBudget * budgetOverlap(user, candidate)
	if sameArea(user.Location, candidate.Location) {
		b.Location = weightLocation
	}

	*b = Breakdown{
		Destinations: round3(b.Destinations),
		Interests:    round3(b.Interests),
		Languages:    round3(b.Languages),
		Age:          round3(b.Age),
		TravelStyle:  round3(b.TravelStyle),
		Budget:       round3(b.Budget),
		Location:     round3(b.Location),
	}
	m.Score = math.Min(1, round3(b.Total()))
	return m
}

// overlap is shared items over the smaller list, so a short list fully
// contained in a long one counts as a full match.
func overlap(common int, a, b []string) float64 {
	smaller := min(len(a), len(b))
	if smaller == 0 || common == 0 {
		return 0
	}
	return math.Min(1, float64(common)/float64(smaller))
}

// budgetOverlap is the shared part of the two budget ranges relative to the
// narrower range. Missing ranges contribute nothing.
func budgetOverlap(a, b models.TravelerProfile) float64 {
	if a.BudgetMax <= 0 || b.BudgetMax <= 0 {
		return 0
	}
	lo := math.Max(a.BudgetMin, b.BudgetMin)
	hi := math.Min(a.BudgetMax, b.BudgetMax)
	if hi < lo {
		return 0
	}
	width := math.Min(a.BudgetMax-a.BudgetMin, b.BudgetMax-b.BudgetMin)
	if width <= 0 {
		return 1
	}
	return math.Min(1, (hi-lo)/width)
}

// sameArea compares the city part of "City, Region" locations.
func sameArea(a, b string) bool {
	ca := strings.ToLower(strings.TrimSpace(strings.Split(a, ",")[0]))
	cb := strings.ToLower(strings.TrimSpace(strings.Split(b, ",")[0]))
	return ca != "" && ca == cb
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
