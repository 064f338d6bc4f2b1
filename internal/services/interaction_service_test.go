package services

import (
	"context"
	"encoding/json"
	"testing"

	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
)

type memInteractions struct {
	memHistory
	activity []models.UserActivity
}

func (m *memInteractions) LogActivity(_ context.Context, a models.UserActivity) error {
	m.activity = append(m.activity, a)
	return nil
}

func (m *memInteractions) ListActivity(_ context.Context, userID string, _ int) ([]models.UserActivity, error) {
	return m.activity, nil
}

func (m *memInteractions) ListSearches(_ context.Context, userID, searchType string, _ int) ([]models.SearchRecord, error) {
	out := []models.SearchRecord{}
	for _, r := range m.records {
		if searchType == "" || r.SearchType == searchType {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestInteractionServiceActivity(t *testing.T) {
	repo := &memInteractions{}
	svc := InteractionService{Repo: repo, Now: fixedClock, NewID: sequence("ev")}
	ctx := context.Background()

	a, err := svc.LogActivity(ctx, "u1", "view_trip", json.RawMessage(`{"trip_id":"t1"}`))
	if err != nil {
		t.Fatalf("LogActivity error: %v", err)
	}
	if a.ID != "ev1" || !a.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected activity: %+v", a)
	}
	if _, err := svc.LogActivity(ctx, "u1", "", nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation, got %v", err)
	}
	if _, err := svc.LogActivity(ctx, "u1", "view", json.RawMessage(`{`)); !domain.IsValidation(err) {
		t.Fatalf("expected json validation, got %v", err)
	}
	if _, err := svc.LogActivity(ctx, "", "view", nil); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestInteractionServiceSearches(t *testing.T) {
	repo := &memInteractions{}
	svc := InteractionService{Repo: repo, Now: fixedClock}
	ctx := context.Background()

	if _, err := svc.RecordSearch(ctx, "u1", models.SearchRecord{SearchType: "Hotel", Destination: "Paris", Rooms: 1}); err != nil {
		t.Fatalf("RecordSearch error: %v", err)
	}
	if _, err := svc.RecordSearch(ctx, "u1", models.SearchRecord{SearchType: "train"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation, got %v", err)
	}
	got, err := svc.ListSearches(ctx, "u1", "hotel", 10)
	if err != nil || len(got) != 1 || got[0].UserID != "u1" {
		t.Fatalf("unexpected searches %+v %v", got, err)
	}
	if _, err := svc.ListSearches(ctx, "u1", "boat", 10); !domain.IsValidation(err) {
		t.Fatalf("expected validation, got %v", err)
	}
}
