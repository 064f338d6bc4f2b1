package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"utrippin/internal/buddies"
	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/repositories"
	"utrippin/internal/utils"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (models.TravelerProfile, error)
	ListPublicProfiles(ctx context.Context, excludeID string, limit int) ([]models.TravelerProfile, error)
	SaveProfile(ctx context.Context, p models.TravelerProfile) error
	RecordSwipe(ctx context.Context, s models.Swipe) error
	HasLiked(ctx context.Context, swiperID, swipedID string) (bool, error)
	CreateMatch(ctx context.Context, m models.BuddyMatch) error
	ListMatches(ctx context.Context, userID string) ([]models.BuddyMatch, error)
}

type BuddyService struct {
	Repo      ProfileStore
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

// SwipeResult reports whether a like completed a mutual match.
type SwipeResult struct {
	Matched bool               `json:"matched"`
	Match   *models.BuddyMatch `json:"match,omitempty"`
}

func (s BuddyService) repo() ProfileStore {
	if s.Repo != nil {
		return s.Repo
	}
	return repositories.ProfileRepository{}
}

func (s BuddyService) profile(ctx context.Context, id string) (models.TravelerProfile, error) {
	p, err := s.repo().GetProfile(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "traveler profile", Err: err}
	}
	if err != nil {
		return p, domain.InternalError{Msg: "failed to load profile", Err: err}
	}
	return p, nil
}

func (s BuddyService) GetProfile(ctx context.Context, userID string) (models.TravelerProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return models.TravelerProfile{}, domain.ForbiddenError{Action: "view profile"}
	}
	return s.profile(ctx, userID)
}

// SaveProfile stores the caller's matching profile. The id always comes from
// the caller, never from the payload.
func (s BuddyService) SaveProfile(ctx context.Context, userID string, p models.TravelerProfile) (models.TravelerProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return models.TravelerProfile{}, domain.ForbiddenError{Action: "save profile"}
	}
	p.ID = userID
	p.Email = strings.TrimSpace(p.Email)
	if p.Age < 0 || p.Age > 120 {
		return models.TravelerProfile{}, domain.ValidationError{Field: "age", Msg: "must be between 0 and 120"}
	}
	if p.BudgetMin < 0 || p.BudgetMax < 0 || (p.BudgetMax > 0 && p.BudgetMin > p.BudgetMax) {
		return models.TravelerProfile{}, domain.ValidationError{Field: "budget_min", Msg: "must be a valid range"}
	}
	p.PreferredDestinations = utils.CleanList(p.PreferredDestinations)
	p.Interests = utils.CleanList(p.Interests)
	p.LanguagesSpoken = utils.CleanList(p.LanguagesSpoken)

	if err := s.repo().SaveProfile(ctx, p); err != nil {
		return models.TravelerProfile{}, domain.InternalError{Msg: "failed to save profile", Err: err}
	}
	utils.LogEvent(s.RequestID, "buddies", "save_profile", "user_id="+userID)
	return p, nil
}

// FindMatches scores the public profiles against the user's profile.
func (s BuddyService) FindMatches(ctx context.Context, userID string, f buddies.Filters) (buddies.Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return buddies.Summary{}, domain.ForbiddenError{Action: "find buddies"}
	}
	if f.MinScore < 0 || f.MinScore > 1 {
		return buddies.Summary{}, domain.ValidationError{Field: "min_score", Msg: "must be between 0 and 1"}
	}
	user, err := s.profile(ctx, userID)
	if err != nil {
		return buddies.Summary{}, err
	}
	candidates, err := s.repo().ListPublicProfiles(ctx, userID, 0)
	if err != nil {
		return buddies.Summary{}, domain.InternalError{Msg: "failed to load candidates", Err: err}
	}

	matches := buddies.FindMatches(user, candidates, f)
	summary := buddies.Summarize(matches, f)
	utils.LogEvent(s.RequestID, "buddies", "find_matches",
		fmt.Sprintf("candidates=%d matches=%d", len(candidates), len(matches)))
	return summary, nil
}

// RecordSwipe stores a like or pass. A like answered by an earlier like from
// the other user creates the match.
func (s BuddyService) RecordSwipe(ctx context.Context, swiperID, swipedID string, liked bool) (SwipeResult, error) {
	swiperID, swipedID = strings.TrimSpace(swiperID), strings.TrimSpace(swipedID)
	if swiperID == "" {
		return SwipeResult{}, domain.ForbiddenError{Action: "swipe"}
	}
	if swipedID == "" {
		return SwipeResult{}, domain.ValidationError{Field: "swiped_id", Msg: "is required"}
	}
	if swiperID == swipedID {
		return SwipeResult{}, domain.ValidationError{Field: "swiped_id", Msg: "cannot swipe on yourself"}
	}
	if _, err := s.profile(ctx, swipedID); err != nil {
		return SwipeResult{}, err
	}

	now := nowOr(s.Now)
	if err := s.repo().RecordSwipe(ctx, models.Swipe{SwiperID: swiperID, SwipedID: swipedID, Liked: liked, CreatedAt: now}); err != nil {
		return SwipeResult{}, domain.InternalError{Msg: "failed to record swipe", Err: err}
	}
	if !liked {
		return SwipeResult{}, nil
	}

	mutual, err := s.repo().HasLiked(ctx, swipedID, swiperID)
	if err != nil {
		return SwipeResult{}, domain.InternalError{Msg: "failed to check match", Err: err}
	}
	if !mutual {
		return SwipeResult{}, nil
	}

	a, b := swiperID, swipedID
	if b < a {
		a, b = b, a
	}
	m := models.BuddyMatch{ID: idOr(s.NewID), UserA: a, UserB: b, CreatedAt: now}
	if err := s.repo().CreateMatch(ctx, m); err != nil {
		return SwipeResult{}, domain.InternalError{Msg: "failed to create match", Err: err}
	}
	utils.LogEvent(s.RequestID, "buddies", "match", fmt.Sprintf("pair=%s,%s", a, b))
	return SwipeResult{Matched: true, Match: &m}, nil
}

func (s BuddyService) ListMatches(ctx context.Context, userID string) ([]models.BuddyMatch, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ForbiddenError{Action: "list matches"}
	}
	out, err := s.repo().ListMatches(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list matches", Err: err}
	}
	return out, nil
}
