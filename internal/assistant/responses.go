package assistant

import "strings"

const (
	SourceCommon   = "common_cache"
	SourceDatabase = "database_cache"
	SourceModel    = "gemini"

	DefaultMaxTurns = 5
)

const aboutUtrippin = "Utrippin.ai is an AI-powered travel planning platform that helps you discover destinations, plan itineraries, and connect with travel buddies. I'm Keila, your personal travel assistant!"

var commonResponses = map[string]string{
	"what is utrippin.ai": aboutUtrippin,
	"what is utrippin":    aboutUtrippin,
	"who are you":         "I'm Keila, your AI travel assistant! I help you plan amazing trips, find destinations, and create personalized itineraries.",
	"hello":               "Hi there! I'm Keila, your AI travel assistant. How can I help you plan your next adventure?",
	"hi":                  "Hi! I'm Keila, ready to help you plan an amazing trip. Where would you like to go?",
	"hey":                 "Hey! I'm Keila, your travel planning assistant. What adventure are we planning today?",
	"help":                "I can help you plan trips, find destinations, create itineraries, and answer travel questions. What would you like to explore?",
	"what can you do":     "I can help you plan trips, find destinations, create custom itineraries, suggest activities, and provide travel advice. Where would you like to go?",
}

var punctuation = strings.NewReplacer(".", "", ",", "", "!", "", "?", "")

// commonByQuery indexes commonResponses by normalized question so keys with
// punctuation ("utrippin.ai") stay reachable.
var commonByQuery = func() map[string]string {
	m := make(map[string]string, len(commonResponses))
	for q, r := range commonResponses {
		m[NormalizeQuery(q)] = r
	}
	return m
}()

// NormalizeQuery lower-cases, trims and drops . , ! ? for the canned-answer
// lookup.
func NormalizeQuery(q string) string {
	return punctuation.Replace(strings.ToLower(strings.TrimSpace(q)))
}

// CommonResponse returns the canned answer for greetings and product
// questions.
func CommonResponse(q string) (string, bool) {
	r, ok := commonByQuery[NormalizeQuery(q)]
	return r, ok
}

// CacheKey is the stored-answer key: lower-cased and trimmed, punctuation
// kept.
func CacheKey(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// LimitHistory keeps the last maxTurns messages.
func LimitHistory[T any](history []T, maxTurns int) []T {
	if maxTurns <= 0 || len(history) <= maxTurns {
		return history
	}
	return history[len(history)-maxTurns:]
}

// ConcisePrompt wraps the user's request in the assistant's answering rules.
func ConcisePrompt(prompt string) string {
	return `You are Keila, a helpful travel assistant. Be concise and practical.

RESPONSE GUIDELINES:
- Keep responses under 100 words unless detailed itinerary requested
- Use bullet points for efficiency
- Be direct and actionable
- Focus only on essential travel information

USER REQUEST: ` + prompt + `

Provide a helpful, concise response.`
}
