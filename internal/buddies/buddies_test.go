package buddies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utrippin/internal/domain/models"
)

func profile(id string, age int) models.TravelerProfile {
	return models.TravelerProfile{
		ID:                    id,
		Age:                   age,
		PublicProfile:         true,
		PreferredDestinations: []string{},
		Interests:             []string{},
		LanguagesSpoken:       []string{},
	}
}

func TestScoreIdenticalProfiles(t *testing.T) {
	u := profile("u", 30)
	u.PreferredDestinations = []string{"Lisbon", "Tokyo"}
	u.Interests = []string{"food", "hiking"}
	u.LanguagesSpoken = []string{"English"}
	u.TravelStyle = "Adventure"
	u.BudgetMin, u.BudgetMax = 1000, 3000
	u.Location = "Miami, FL"

	c := u
	c.ID = "c"
	c.PreferredDestinations = []string{"tokyo", "lisbon"}
	c.TravelStyle = "adventure"
	c.Location = "miami"

	m := Score(u, c, 15)
	assert.Equal(t, 1.0, m.Score)
	assert.Equal(t, 0.25, m.Breakdown.Destinations)
	assert.Equal(t, 0.05, m.Breakdown.Location)
	assert.Equal(t, []string{"tokyo", "lisbon"}, m.CommonDestinations)
	require.NotNil(t, m.AgeDifference)
	assert.Equal(t, 0, *m.AgeDifference)
}

func TestScorePartialFactors(t *testing.T) {
	u := profile("u", 30)
	u.Interests = []string{"food", "hiking", "museums", "surf"}
	u.BudgetMin, u.BudgetMax = 1000, 2000

	c := profile("c", 36)
	c.Interests = []string{"Food", "nightlife"}
	c.BudgetMin, c.BudgetMax = 1500, 4000

	m := Score(u, c, 12)
	assert.Equal(t, 0.1, m.Breakdown.Interests, "one of the smaller list's two items shared")
	assert.Equal(t, 0.075, m.Breakdown.Age, "six years of a twelve year window")
	assert.Equal(t, 0.05, m.Breakdown.Budget, "500 shared of a 1000 wide range")
	assert.Zero(t, m.Breakdown.Destinations)
	assert.Zero(t, m.Breakdown.TravelStyle)
	assert.InDelta(t, 0.225, m.Score, 1e-9)
}

func TestScoreBounds(t *testing.T) {
	empty := Score(models.TravelerProfile{}, models.TravelerProfile{}, 0)
	assert.Zero(t, empty.Score)
	assert.Nil(t, empty.AgeDifference)

	far := Score(profile("u", 20), profile("c", 70), 15)
	assert.Zero(t, far.Breakdown.Age)
	assert.GreaterOrEqual(t, far.Score, 0.0)
	assert.LessOrEqual(t, far.Score, 1.0)
}

func TestFindMatches(t *testing.T) {
	u := profile("u", 30)
	u.PreferredDestinations = []string{"Bali"}
	u.Interests = []string{"surf"}
	u.LanguagesSpoken = []string{"English"}

	good := profile("good", 31)
	good.PreferredDestinations = []string{"Bali", "Lombok"}
	good.Interests = []string{"surf"}
	good.LanguagesSpoken = []string{"english"}

	ok := profile("ok", 40)
	ok.PreferredDestinations = []string{"Bali"}
	ok.LanguagesSpoken = []string{"English"}

	private := good
	private.ID = "private"
	private.PublicProfile = false

	old := good
	old.ID = "old"
	old.Age = 60

	weak := profile("weak", 30)

	candidates := []models.TravelerProfile{u, ok, weak, private, old, good}
	got := FindMatches(u, candidates, Filters{})
	require.Len(t, got, 2)
	assert.Equal(t, "good", got[0].Profile.ID)
	assert.Equal(t, "ok", got[1].Profile.ID)

	assert.Len(t, FindMatches(u, candidates, Filters{Limit: 1}), 1)
	assert.Empty(t, FindMatches(u, candidates, Filters{Destination: "lombok", MinScore: 0.99}))

	lombok := FindMatches(u, candidates, Filters{Destination: "lombok"})
	require.Len(t, lombok, 1)
	assert.Equal(t, "good", lombok[0].Profile.ID)
}

func TestEnrichAndQuality(t *testing.T) {
	m := Match{
		Score:           0.655,
		CommonInterests: []string{"a", "b", "c", "d"},
		Breakdown:       Breakdown{Interests: 0.2, Age: 0.15, Destinations: 0.25, Location: 0.055},
	}
	e := Enrich(m)
	assert.Equal(t, "Good", e.Quality)
	assert.Equal(t, 66, e.Percentage)
	assert.Equal(t, []string{"a", "b", "c"}, e.TopCommonInterests)
	assert.Empty(t, e.TopCommonDestinations)
	require.Len(t, e.Factors, 4)
	assert.Equal(t, "destinations", e.Factors[0].Type)
	assert.Equal(t, "0 shared destinations", e.Factors[0].Description)
	assert.Equal(t, "location", e.Factors[3].Type)

	assert.Equal(t, "Excellent", Quality(0.8))
	assert.Equal(t, "Fair", Quality(0.4))
	assert.Equal(t, "Low", Quality(0.39))
}

func TestSummarize(t *testing.T) {
	s := Summarize(nil, Filters{Limit: 5})
	assert.Zero(t, s.TotalCount)
	assert.Nil(t, s.ScoreRange)
	assert.NotNil(t, s.Matches)

	s = Summarize([]Match{{Score: 0.9}, {Score: 0.451}, {Score: 0.5}}, Filters{})
	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, 0.62, s.AverageScore)
	require.NotNil(t, s.ScoreRange)
	assert.Equal(t, 0.451, s.ScoreRange.Min)
	assert.Equal(t, 0.9, s.ScoreRange.Max)
}
