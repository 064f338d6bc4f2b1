package buddies

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"utrippin/internal/domain/models"
)

const (
	DefaultMaxAgeDiff = 15
	DefaultMinScore   = 0.3
	DefaultLimit      = 20
)

// Filters narrows FindMatches. Zero values take the defaults.
type Filters struct {
	Destination string  `json:"destination,omitempty"`
	MaxAgeDiff  int     `json:"max_age_diff,omitempty"`
	MinScore    float64 `json:"min_score,omitempty"`
	Limit       int     `json:"limit,omitempty"`
}

func (f Filters) withDefaults() Filters {
	if f.MaxAgeDiff <= 0 {
		f.MaxAgeDiff = DefaultMaxAgeDiff
	}
	if f.MinScore <= 0 {
		f.MinScore = DefaultMinScore
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	f.Destination = strings.TrimSpace(f.Destination)
	return f
}

// FindMatches scores every eligible candidate and keeps the best. Self,
// private profiles, candidates outside the age window and those below the
// minimum score are left out.
func FindMatches(user models.TravelerProfile, candidates []models.TravelerProfile, f Filters) []Match {
	f = f.withDefaults()
	dest := strings.ToLower(f.Destination)

	out := []Match{}
	for _, c := range candidates {
		if c.ID == user.ID || !c.PublicProfile {
			continue
		}
		if dest != "" && !prefersDestination(c, dest) {
			continue
		}
		m := Score(user, c, f.MaxAgeDiff)
		if m.AgeDifference != nil && *m.AgeDifference > f.MaxAgeDiff {
			continue
		}
		if m.Score < f.MinScore {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func prefersDestination(p models.TravelerProfile, dest string) bool {
	for _, d := range p.PreferredDestinations {
		if strings.Contains(strings.ToLower(d), dest) {
			return true
		}
	}
	return false
}

type Factor struct {
	Type        string  `json:"type"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

type EnrichedMatch struct {
	Match
	Quality               string   `json:"match_quality"`
	Factors               []Factor `json:"compatibility_factors"`
	Percentage            int      `json:"match_percentage"`
	TopCommonInterests    []string `json:"top_common_interests"`
	TopCommonDestinations []string `json:"top_common_destinations"`
}

// Quality labels a score.
func Quality(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent"
	case score >= 0.6:
		return "Good"
	case score >= 0.4:
		return "Fair"
	default:
		return "Low"
	}
}

// Enrich explains a match: contributing factors strongest first, a quality
// label and the top three shared interests and destinations.
func Enrich(m Match) EnrichedMatch {
	b := m.Breakdown
	candidates := []Factor{
		{"destinations", b.Destinations, fmt.Sprintf("%d shared destinations", len(m.CommonDestinations))},
		{"interests", b.Interests, fmt.Sprintf("%d shared interests", len(m.CommonInterests))},
		{"languages", b.Languages, "Shared languages"},
		{"age", b.Age, "Similar age"},
		{"travel_style", b.TravelStyle, "Matching travel style"},
		{"budget", b.Budget, "Compatible budget ranges"},
		{"location", b.Location, "Location proximity"},
	}
	factors := []Factor{}
	for _, f := range candidates {
		if f.Score > 0 {
			factors = append(factors, f)
		}
	}
	sort.SliceStable(factors, func(i, j int) bool { return factors[i].Score > factors[j].Score })

	return EnrichedMatch{
		Match:                 m,
		Quality:               Quality(m.Score),
		Factors:               factors,
		Percentage:            int(math.Round(m.Score * 100)),
		TopCommonInterests:    top(m.CommonInterests, 3),
		TopCommonDestinations: top(m.CommonDestinations, 3),
	}
}

func top(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	return append([]string{}, list...)
}

type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary is the response of a match search.
type Summary struct {
	Matches      []EnrichedMatch `json:"matches"`
	TotalCount   int             `json:"total_count"`
	AverageScore float64         `json:"average_score"`
	Applied      Filters         `json:"applied_filters"`
	ScoreRange   *ScoreRange     `json:"score_range"`
}

// Summarize enriches matches and adds the average (two decimals) and range.
func Summarize(matches []Match, applied Filters) Summary {
	s := Summary{
		Matches:    make([]EnrichedMatch, 0, len(matches)),
		TotalCount: len(matches),
		Applied:    applied,
	}
	if len(matches) == 0 {
		return s
	}

	sum := 0.0
	r := ScoreRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, m := range matches {
		s.Matches = append(s.Matches, Enrich(m))
		sum += m.Score
		r.Min = math.Min(r.Min, m.Score)
		r.Max = math.Max(r.Max, m.Score)
	}
	s.AverageScore = math.Round(sum/float64(len(matches))*100) / 100
	s.ScoreRange = &r
	return s
}
