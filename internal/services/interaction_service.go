package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/repositories"
)

type InteractionStore interface {
	SearchRecorder
	LogActivity(ctx context.Context, a models.UserActivity) error
	ListActivity(ctx context.Context, userID string, limit int) ([]models.UserActivity, error)
	ListSearches(ctx context.Context, userID, searchType string, limit int) ([]models.SearchRecord, error)
}

type InteractionService struct {
	Repo      InteractionStore
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

var searchTypes = map[string]bool{"flight": true, "hotel": true, "car": true}

func (s InteractionService) repo() InteractionStore {
	if s.Repo != nil {
		return s.Repo
	}
	return repositories.InteractionRepository{}
}

func (s InteractionService) LogActivity(ctx context.Context, userID, activityType string, data json.RawMessage) (models.UserActivity, error) {
	activityType = strings.TrimSpace(activityType)
	if strings.TrimSpace(userID) == "" {
		return models.UserActivity{}, domain.ForbiddenError{Action: "log activity"}
	}
	if activityType == "" || len(activityType) > 50 {
		return models.UserActivity{}, domain.ValidationError{Field: "activity_type", Msg: "is required (max 50 chars)"}
	}
	if len(data) > 0 && !json.Valid(data) {
		return models.UserActivity{}, domain.ValidationError{Field: "activity_data", Msg: "must be valid JSON"}
	}
	a := models.UserActivity{
		ID:           idOr(s.NewID),
		UserID:       userID,
		ActivityType: activityType,
		ActivityData: data,
		CreatedAt:    nowOr(s.Now),
	}
	if err := s.repo().LogActivity(ctx, a); err != nil {
		return models.UserActivity{}, domain.InternalError{Msg: "failed to log activity", Err: err}
	}
	return a, nil
}

func (s InteractionService) ListActivity(ctx context.Context, userID string, limit int) ([]models.UserActivity, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ForbiddenError{Action: "list activity"}
	}
	out, err := s.repo().ListActivity(ctx, userID, limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list activity", Err: err}
	}
	return out, nil
}

// RecordSearch stores a hotel or car search made by the client. Flight
// searches are recorded by FlightService itself.
func (s InteractionService) RecordSearch(ctx context.Context, userID string, rec models.SearchRecord) (models.SearchRecord, error) {
	rec.SearchType = strings.ToLower(strings.TrimSpace(rec.SearchType))
	if !searchTypes[rec.SearchType] {
		return models.SearchRecord{}, domain.ValidationError{Field: "search_type", Msg: "must be flight, hotel or car"}
	}
	if len(rec.SearchData) > 0 && !json.Valid(rec.SearchData) {
		return models.SearchRecord{}, domain.ValidationError{Field: "search_data", Msg: "must be valid JSON"}
	}
	rec.ID = idOr(s.NewID)
	rec.UserID = userID
	rec.CreatedAt = nowOr(s.Now)
	if err := s.repo().RecordSearch(ctx, rec); err != nil {
		return models.SearchRecord{}, domain.InternalError{Msg: "failed to record search", Err: err}
	}
	return rec, nil
}

func (s InteractionService) ListSearches(ctx context.Context, userID, searchType string, limit int) ([]models.SearchRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ForbiddenError{Action: "list searches"}
	}
	searchType = strings.ToLower(strings.TrimSpace(searchType))
	if searchType != "" && !searchTypes[searchType] {
		return nil, domain.ValidationError{Field: "type", Msg: "must be flight, hotel or car"}
	}
	out, err := s.repo().ListSearches(ctx, userID, searchType, limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list searches", Err: err}
	}
	return out, nil
}
