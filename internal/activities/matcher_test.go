package activities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utrippin/internal/domain/models"
)

func titles(exps []models.Experience) []string {
	out := make([]string, 0, len(exps))
	for _, e := range exps {
		out = append(out, e.Title)
	}
	return out
}

func TestLocationKeywords(t *testing.T) {
	assert.Equal(t, []string{"miami", "south beach", "florida"}, LocationKeywords("Miami, Florida"))
	assert.Equal(t, []string{"paris", "eiffel tower", "louvre", "champs elysees", "notre dame", "france"}, LocationKeywords("Paris, France"))
	assert.Equal(t, []string{"washington dc", "dc", "d.c.", "capitol", "potomac", "smithsonian"}, LocationKeywords("Washington, DC"))
	assert.Equal(t, []string{"seattle", "washington state", "pacific northwest", "puget sound"}, LocationKeywords("Washington"))
	assert.Equal(t, []string{"usa"}, LocationKeywords("Washington, USA"))
	assert.Equal(t, []string{"boise"}, LocationKeywords("Boise"))
}

func TestFindActivitiesBundledCatalogue(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)
	require.NotEmpty(t, m.Experiences())

	miami := m.FindActivitiesForDestination("Miami, Florida", 2)
	require.Len(t, miami, 2)
	for _, e := range miami {
		assert.Contains(t, e.Location, "Miami")
	}

	seattle := m.FindActivitiesForDestination("Seattle, Washington", 0)
	require.NotEmpty(t, seattle)
	for _, e := range seattle {
		assert.NotContains(t, e.Location, "D.C.")
	}

	dc := m.FindActivitiesForDestination("Washington, D.C.", 0)
	require.NotEmpty(t, dc)
	assert.Equal(t, "Washington D.C. Monuments at Night", dc[0].Title)
	for _, e := range dc {
		assert.NotContains(t, e.Location, "Seattle")
	}
}

func TestFindActivitiesRankingAndPenalties(t *testing.T) {
	m := NewMatcherFrom([]models.Experience{
		{Title: "Reef Snorkel", Location: "Cozumel, Mexico", Description: "Swim with turtles"},
		{Title: "Cancun Ruins Day Trip", Location: "Cancun, Mexico", Description: "Tulum and the Riviera Maya coast"},
		{Title: "Lighthouse Walk", Location: "Cancun, Mexico", Description: "A lighthouse at sunset"},
		{Title: "Everglades Airboat", Location: "Miami, Florida", Description: "Gators and grass"},
	})

	got := m.FindActivitiesForDestination("Cancun, Mexico", 10)
	assert.Equal(t, []string{"Cancun Ruins Day Trip", "Reef Snorkel"}, titles(got))

	assert.Empty(t, m.FindActivitiesForDestination("Reykjavik", 10))
}

func TestFindActivitiesTruncates(t *testing.T) {
	exps := make([]models.Experience, 10)
	for i := range exps {
		exps[i] = models.Experience{Title: "Boston tour", Location: "Boston, Massachusetts"}
	}
	got := NewMatcherFrom(exps).FindActivitiesForDestination("Boston", 0)
	assert.Len(t, got, DefaultMaxResults)
}
