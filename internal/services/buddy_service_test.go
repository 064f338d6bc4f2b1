package services

import (
	"context"
	"testing"

	"utrippin/internal/buddies"
	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
)

func buddyProfiles() *memProfiles {
	base := func(id string, age int) models.TravelerProfile {
		return models.TravelerProfile{
			ID:                    id,
			Age:                   age,
			PreferredDestinations: []string{"Paris", "Tokyo"},
			Interests:             []string{"food", "museums"},
			LanguagesSpoken:       []string{"English"},
			TravelStyle:           "cultural",
			BudgetMin:             1000,
			BudgetMax:             3000,
			Location:              "Miami",
			PublicProfile:         true,
		}
	}
	far := base("u4", 70)
	private := base("u3", 30)
	private.PublicProfile = false
	return &memProfiles{profiles: map[string]models.TravelerProfile{
		"u1": base("u1", 30),
		"u2": base("u2", 32),
		"u3": private,
		"u4": far,
	}}
}

func TestBuddyServiceFindMatches(t *testing.T) {
	svc := BuddyService{Repo: buddyProfiles()}
	summary, err := svc.FindMatches(context.Background(), "u1", buddies.Filters{})
	if err != nil {
		t.Fatalf("FindMatches error: %v", err)
	}
	if summary.TotalCount != 1 || summary.Matches[0].Profile.ID != "u2" {
		t.Fatalf("expected only u2, got %+v", summary)
	}
	if summary.Matches[0].Quality != "Excellent" {
		t.Fatalf("unexpected quality %q", summary.Matches[0].Quality)
	}

	if _, err := svc.FindMatches(context.Background(), "ghost", buddies.Filters{}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.FindMatches(context.Background(), "u1", buddies.Filters{MinScore: 2}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuddyServiceMutualSwipe(t *testing.T) {
	repo := buddyProfiles()
	svc := BuddyService{Repo: repo, Now: fixedClock, NewID: sequence("m")}
	ctx := context.Background()

	first, err := svc.RecordSwipe(ctx, "u2", "u1", true)
	if err != nil || first.Matched {
		t.Fatalf("first like should not match: %+v %v", first, err)
	}
	second, err := svc.RecordSwipe(ctx, "u1", "u2", true)
	if err != nil {
		t.Fatalf("RecordSwipe error: %v", err)
	}
	if !second.Matched || second.Match.UserA != "u1" || second.Match.UserB != "u2" {
		t.Fatalf("expected ordered match, got %+v", second)
	}

	pass, err := svc.RecordSwipe(ctx, "u4", "u1", false)
	if err != nil || pass.Matched {
		t.Fatalf("pass should not match: %+v %v", pass, err)
	}
	if _, err := svc.RecordSwipe(ctx, "u1", "u1", true); !domain.IsValidation(err) {
		t.Fatalf("self swipe should be rejected, got %v", err)
	}
	if _, err := svc.RecordSwipe(ctx, "u1", "ghost", true); !domain.IsNotFound(err) {
		t.Fatalf("unknown profile should be not found, got %v", err)
	}
}

func TestBuddyServiceSaveProfile(t *testing.T) {
	repo := &memProfiles{}
	svc := BuddyService{Repo: repo}

	saved, err := svc.SaveProfile(context.Background(), "u9", models.TravelerProfile{
		ID:        "someone-else",
		Age:       28,
		Interests: []string{" food ", "", "food", "hiking"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != "u9" {
		t.Fatalf("profile id must come from the caller, got %q", saved.ID)
	}
	if len(saved.Interests) != 2 || saved.Interests[0] != "food" {
		t.Fatalf("interests not cleaned: %v", saved.Interests)
	}
	if _, ok := repo.profiles["u9"]; !ok {
		t.Fatalf("profile not stored")
	}

	got, err := svc.GetProfile(context.Background(), "u9")
	if err != nil || got.Age != 28 {
		t.Fatalf("GetProfile = %+v, %v", got, err)
	}

	if _, err := svc.SaveProfile(context.Background(), "u9", models.TravelerProfile{BudgetMin: 500, BudgetMax: 100}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inverted budget, got %v", err)
	}
	if _, err := svc.SaveProfile(context.Background(), "", models.TravelerProfile{}); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for anonymous caller, got %v", err)
	}
	if _, err := svc.GetProfile(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
