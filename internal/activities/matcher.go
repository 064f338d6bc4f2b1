// Package activities matches bookable experiences to a destination and lays
// them out as a day-by-day plan.
package activities

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

const (
	DefaultMaxResults = 6
	regionalPenalty   = 300
	primaryScore      = 100
	secondaryScore    = 50
	secondaryStep     = 5
)

//go:embed experiences.json
var experiencesJSON []byte

// Matcher scores a fixed experience catalogue against destinations.
type Matcher struct {
	experiences []models.Experience
}

// NewMatcher loads the bundled catalogue.
func NewMatcher() (*Matcher, error) {
	var exps []models.Experience
	if err := json.Unmarshal(experiencesJSON, &exps); err != nil {
		return nil, fmt.Errorf("decode experiences: %w", err)
	}
	return &Matcher{experiences: exps}, nil
}

func NewMatcherFrom(exps []models.Experience) *Matcher {
	return &Matcher{experiences: exps}
}

func (m *Matcher) Experiences() []models.Experience {
	return m.experiences
}

type scored struct {
	exp   models.Experience
	score int
}

// FindActivitiesForDestination returns up to max experiences with a positive
// score, best first. max <= 0 uses DefaultMaxResults.
func (m *Matcher) FindActivitiesForDestination(destination string, max int) []models.Experience {
	if max <= 0 {
		max = DefaultMaxResults
	}
	keywords := LocationKeywords(destination)
	dest := strings.ToLower(destination)

	matched := []scored{}
	for _, exp := range m.experiences {
		if s := scoreExperience(exp, dest, keywords); s > 0 {
			matched = append(matched, scored{exp: exp, score: s})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})
	if len(matched) > max {
		matched = matched[:max]
	}

	out := make([]models.Experience, 0, len(matched))
	for _, s := range matched {
		out = append(out, s.exp)
	}
	return out
}

func scoreExperience(exp models.Experience, dest string, keywords []string) int {
	text := strings.ToLower(exp.Title + " " + exp.Location + " " + exp.Description)

	score := 0
	if len(keywords) > 0 && keywords[0] != "" && strings.Contains(text, keywords[0]) {
		score += primaryScore
	}
	for i, kw := range keywords[min(1, len(keywords)):] {
		if strings.Contains(text, kw) {
			score += secondaryScore - i*secondaryStep
		}
	}

	if penalized(dest, text) {
		score -= regionalPenalty
	}
	return score
}

// penalized drops experiences from the wrong region when the destination
// name is ambiguous or easily confused (Washington state vs D.C., Mexico).
func penalized(dest, text string) bool {
	isDC := containsAny(dest, "dc", "d.c.")
	switch {
	case containsAny(dest, "cancun", "mexico"):
		return containsAny(text, "oregon", "denver", "utah", "seattle", "washington",
			"california", "florida", "temple square", "lighthouse")
	case strings.Contains(dest, "washington") && isDC:
		// "Washington D.C." titles count as D.C. as well as "dc".
		return containsAny(text, "seattle", "pike place", "cannabis", "lighthouse") ||
			(strings.Contains(text, "washington") && !containsAny(text, "dc", "d.c."))
	case strings.Contains(dest, "seattle") || strings.Contains(dest, "washington"):
		return containsAny(text, "capitol", "smithsonian", "dc", "d.c.", "denver",
			"utah", "cancun", "mexico")
	}
	return false
}

// LocationKeywords expands "City, Region" into search keywords, most
// specific first. The region, when given, is always appended.
func LocationKeywords(destination string) []string {
	dest := strings.ToLower(destination)
	parts := strings.Split(dest, ",")
	city := strings.TrimSpace(parts[0])
	region := ""
	if len(parts) > 1 {
		region = strings.TrimSpace(parts[1])
	}

	var kw []string
	switch {
	case strings.Contains(city, "cancun"):
		kw = []string{"cancun", "riviera maya", "yucatan", "playa del carmen", "tulum", "cozumel"}
	case strings.Contains(city, "rome"):
		kw = []string{"rome", "vatican", "colosseum", "trevi fountain", "spanish steps"}
	case strings.Contains(city, "paris"):
		kw = []string{"paris", "eiffel tower", "louvre", "champs elysees", "notre dame"}
	case strings.Contains(city, "london"):
		kw = []string{"london", "big ben", "tower bridge", "buckingham palace"}
	case strings.Contains(city, "tokyo"):
		kw = []string{"tokyo", "shibuya", "shinjuku", "harajuku", "tsukiji"}
	case strings.Contains(city, "washington"):
		switch {
		case strings.Contains(region, "dc") || containsAny(dest, "dc", "d.c."):
			kw = []string{"washington dc", "dc", "d.c.", "capitol", "potomac", "smithsonian"}
		case strings.Contains(region, "washington") || region == "":
			kw = []string{"seattle", "washington state", "pacific northwest", "puget sound"}
		}
	default:
		kw = append(kw, city)
		kw = append(kw, cityVariations(city)...)
	}

	if region != "" {
		kw = append(kw, region)
	}
	return utils.UniqueStrings(kw)
}

func cityVariations(city string) []string {
	switch {
	case strings.Contains(city, "new york"):
		return []string{"nyc", "manhattan", "brooklyn", "times square"}
	case strings.Contains(city, "los angeles"):
		return []string{"la", "hollywood", "beverly hills", "santa monica"}
	case strings.Contains(city, "san francisco"):
		return []string{"sf", "bay area", "golden gate"}
	case strings.Contains(city, "las vegas"):
		return []string{"vegas", "nevada", "strip"}
	case strings.Contains(city, "miami"):
		return []string{"south beach", "florida"}
	case strings.Contains(city, "chicago"):
		return []string{"illinois", "windy city"}
	case strings.Contains(city, "seattle"):
		return []string{"washington", "pacific northwest", "pike place"}
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
