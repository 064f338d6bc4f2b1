package destinations

import "strings"

// QuestionSet is the four starter prompts shown next to the assistant.
type QuestionSet struct {
	Planner  string `json:"planner"`
	Compass  string `json:"compass"`
	Insider  string `json:"insider"`
	Ultimate string `json:"ultimate"`
}

type locationQuestions struct {
	name    string
	aliases []string
	set     QuestionSet
}

var questionSets = []locationQuestions{
	{
		name:    "U.S. Virgin Islands",
		aliases: []string{"virgin islands", "usvi"},
		set: QuestionSet{
			Planner:  "Plan a 3-day adventure in St. Thomas for me.",
			Compass:  "Find some Black-owned restaurants and businesses in St. Croix.",
			Insider:  "Where can I find the best local seafood for dinner tonight?",
			Ultimate: "What are some fun, free things to do in the USVI this week?",
		},
	},
	{
		name:    "Miami",
		aliases: []string{"miami", "florida"},
		set: QuestionSet{
			Planner:  "Plan a 3-day itinerary for a first-timer in Miami.",
			Compass:  "Show me the best spots to experience Afro-Caribbean culture in Miami.",
			Insider:  "Where can I find the best nightlife beyond the big South Beach clubs?",
			Ultimate: "What are the best free things to do in Miami Beach?",
		},
	},
	{
		name:    "New York",
		aliases: []string{"new york", "nyc"},
		set: QuestionSet{
			Planner:  "Plan a weekend in NYC for a first-timer.",
			Compass:  "Show me cultural neighborhoods beyond Manhattan.",
			Insider:  "Where can I find authentic local food away from tourist spots?",
			Ultimate: "What are the best free activities in New York City?",
		},
	},
	{
		name:    "Los Angeles",
		aliases: []string{"los angeles", "california"},
		set: QuestionSet{
			Planner:  "Plan a 3-day LA itinerary beyond Hollywood.",
			Compass:  "Show me diverse neighborhoods and cultural experiences in LA.",
			Insider:  "Where can I find the best hidden beaches and local spots?",
			Ultimate: "What are fun, free things to do in Los Angeles?",
		},
	},
}

var DefaultQuestions = QuestionSet{
	Planner:  "Plan a weekend getaway for me.",
	Compass:  "What are some good destinations for solo travelers?",
	Insider:  "How do I find culturally rich experiences on a trip?",
	Ultimate: "Show me how to travel the world on a budget.",
}

// SuggestedQuestions picks the question set for a location: a location
// containing a known name wins, then aliases, else the default set.
func SuggestedQuestions(location string) QuestionSet {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return DefaultQuestions
	}
	for _, q := range questionSets {
		if strings.Contains(loc, strings.ToLower(q.name)) {
			return q.set
		}
	}
	for _, q := range questionSets {
		for _, a := range q.aliases {
			if strings.Contains(loc, a) {
				return q.set
			}
		}
	}
	return DefaultQuestions
}
