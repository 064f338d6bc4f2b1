package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/repositories"
	"utrippin/internal/utils"
)

type TripStore interface {
	Create(ctx context.Context, t models.Trip) error
	GetByID(ctx context.Context, id string) (models.Trip, error)
	Update(ctx context.Context, t models.Trip) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.Trip, error)
	ListPublic(ctx context.Context, f models.TripFilters) ([]models.Trip, error)
	SearchDestinations(ctx context.Context, q string, limit int) ([]string, error)
	PopularDestinations(ctx context.Context, limit int) ([]models.DestinationCount, error)
	CreateApplication(ctx context.Context, a models.TripApplication) error
}

type TripService struct {
	Repo      TripStore
	RequestID string
	Now       func() time.Time
	NewID     func() string
}

// TripInput carries create and update payloads; nil fields are left as-is
// on update and take defaults on create.
type TripInput struct {
	Title             *string         `json:"title"`
	Destination       *string         `json:"destination"`
	Country           *string         `json:"country"`
	StartDate         *string         `json:"start_date"`
	EndDate           *string         `json:"end_date"`
	DurationDays      *int            `json:"duration_days"`
	Budget            *float64        `json:"budget"`
	Currency          *string         `json:"currency"`
	TripType          *string         `json:"trip_type"`
	Status            *string         `json:"status"`
	Public            *bool           `json:"public"`
	LookingForBuddies *bool           `json:"looking_for_buddies"`
	MaxBuddies        *int            `json:"max_buddies"`
	AIGenerated       *bool           `json:"ai_generated"`
	AIPrompt          *string         `json:"ai_prompt"`
	Itinerary         json.RawMessage `json:"itinerary_json"`
}

var tripStatuses = map[string]bool{
	models.TripStatusPlanning:  true,
	models.TripStatusBooked:    true,
	models.TripStatusCompleted: true,
	models.TripStatusCancelled: true,
}

func (s TripService) repo() TripStore {
	if s.Repo != nil {
		return s.Repo
	}
	return repositories.TripRepository{}
}

func (s TripService) Create(ctx context.Context, userID string, in TripInput) (models.Trip, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Trip{}, domain.ForbiddenError{Action: "create trip"}
	}
	now := nowOr(s.Now)
	t := models.Trip{
		ID:                idOr(s.NewID),
		UserID:            userID,
		Title:             "New Trip",
		Destination:       "TBD",
		Currency:          "USD",
		Status:            models.TripStatusPlanning,
		Public:            true,
		LookingForBuddies: true,
		MaxBuddies:        models.DefaultMaxBuddies,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	t, err := applyTripInput(t, in)
	if err != nil {
		return models.Trip{}, err
	}
	if err := s.repo().Create(ctx, t); err != nil {
		return models.Trip{}, domain.InternalError{Msg: "failed to create trip", Err: err}
	}
	t.SpotsAvailable = t.MaxBuddies
	utils.LogEvent(s.RequestID, "trips", "create", fmt.Sprintf("trip_id=%s destination=%s", t.ID, t.Destination))
	return t, nil
}

// Get returns a trip. Private trips are only visible to their owner.
func (s TripService) Get(ctx context.Context, viewerID, id string) (models.Trip, error) {
	t, err := s.repo().GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "failed to load trip", Err: err}
	}
	if !t.Public && t.UserID != viewerID {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (s TripService) owned(ctx context.Context, userID, id, action string) (models.Trip, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Trip{}, err
	}
	if t.UserID != userID {
		return models.Trip{}, domain.ForbiddenError{Action: action}
	}
	return t, nil
}

func (s TripService) Update(ctx context.Context, userID, id string, in TripInput) (models.Trip, error) {
	t, err := s.owned(ctx, userID, id, "update trip")
	if err != nil {
		return models.Trip{}, err
	}
	t, err = applyTripInput(t, in)
	if err != nil {
		return models.Trip{}, err
	}
	if t.MaxBuddies < t.ParticipantsCount {
		return models.Trip{}, domain.ConflictError{Resource: "trip", Msg: "max_buddies is below the current participants"}
	}
	t.UpdatedAt = nowOr(s.Now)
	if err := s.repo().Update(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return models.Trip{}, domain.InternalError{Msg: "failed to update trip", Err: err}
	}
	t.SpotsAvailable = max(t.MaxBuddies-t.ParticipantsCount, 0)
	utils.LogEvent(s.RequestID, "trips", "update", "trip_id="+t.ID)
	return t, nil
}

func (s TripService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id, "delete trip"); err != nil {
		return err
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "trip", Err: err}
		}
		return domain.InternalError{Msg: "failed to delete trip", Err: err}
	}
	utils.LogEvent(s.RequestID, "trips", "delete", "trip_id="+id)
	return nil
}

func (s TripService) ListByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ForbiddenError{Action: "list trips"}
	}
	trips, err := s.repo().ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list trips", Err: err}
	}
	return trips, nil
}

func (s TripService) ListPublic(ctx context.Context, f models.TripFilters) ([]models.Trip, error) {
	for field, v := range map[string]string{"start_date": f.StartDate, "end_date": f.EndDate} {
		if strings.TrimSpace(v) != "" && !utils.IsDate(v) {
			return nil, domain.ValidationError{Field: field, Msg: "must be YYYY-MM-DD"}
		}
	}
	if f.BudgetMin != nil && f.BudgetMax != nil && *f.BudgetMin > *f.BudgetMax {
		return nil, domain.ValidationError{Field: "budget_min", Msg: "must not exceed budget_max"}
	}
	p := domain.Pagination{Limit: f.Limit, Offset: f.Offset}.Normalize(20, 100)
	f.Limit, f.Offset = p.Limit, p.Offset

	trips, err := s.repo().ListPublic(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list trips", Err: err}
	}
	return trips, nil
}

func (s TripService) SearchDestinations(ctx context.Context, q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return []string{}, nil
	}
	out, err := s.repo().SearchDestinations(ctx, q, limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to search destinations", Err: err}
	}
	return out, nil
}

func (s TripService) PopularDestinations(ctx context.Context, limit int) ([]models.DestinationCount, error) {
	out, err := s.repo().PopularDestinations(ctx, limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load popular destinations", Err: err}
	}
	return out, nil
}

// Apply sends a buddy request to the owner of a public trip.
func (s TripService) Apply(ctx context.Context, userID, tripID, message string) (models.TripApplication, error) {
	if strings.TrimSpace(userID) == "" {
		return models.TripApplication{}, domain.ForbiddenError{Action: "apply to trip"}
	}
	t, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return models.TripApplication{}, err
	}
	switch {
	case t.UserID == userID:
		return models.TripApplication{}, domain.ConflictError{Resource: "trip", Msg: "cannot apply to your own trip"}
	case !t.LookingForBuddies:
		return models.TripApplication{}, domain.ConflictError{Resource: "trip", Msg: "trip is not looking for buddies"}
	case t.SpotsAvailable <= 0:
		return models.TripApplication{}, domain.ConflictError{Resource: "trip", Msg: "trip is full"}
	}

	app := models.TripApplication{
		ID:        idOr(s.NewID),
		TripID:    t.ID,
		FromUser:  userID,
		ToUser:    t.UserID,
		Message:   strings.TrimSpace(message),
		Status:    "pending",
		CreatedAt: nowOr(s.Now),
	}
	if err := s.repo().CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.TripApplication{}, domain.ConflictError{Resource: "trip", Msg: "already applied", Err: err}
		}
		return models.TripApplication{}, domain.InternalError{Msg: "failed to apply", Err: err}
	}
	utils.LogEvent(s.RequestID, "trips", "apply", fmt.Sprintf("trip_id=%s from=%s", t.ID, userID))
	return app, nil
}

func applyTripInput(t models.Trip, in TripInput) (models.Trip, error) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setString(&t.Title, in.Title)
	setString(&t.Destination, in.Destination)
	setString(&t.Country, in.Country)
	setString(&t.StartDate, in.StartDate)
	setString(&t.EndDate, in.EndDate)
	setString(&t.TripType, in.TripType)
	setString(&t.AIPrompt, in.AIPrompt)
	if in.Currency != nil {
		t.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Status != nil {
		t.Status = strings.ToLower(strings.TrimSpace(*in.Status))
	}
	if in.Budget != nil {
		b := *in.Budget
		t.Budget = &b
	}
	if in.DurationDays != nil {
		t.DurationDays = *in.DurationDays
	}
	if in.Public != nil {
		t.Public = *in.Public
	}
	if in.LookingForBuddies != nil {
		t.LookingForBuddies = *in.LookingForBuddies
	}
	if in.MaxBuddies != nil {
		t.MaxBuddies = *in.MaxBuddies
	}
	if in.AIGenerated != nil {
		t.AIGenerated = *in.AIGenerated
	}
	if len(in.Itinerary) > 0 {
		if !json.Valid(in.Itinerary) {
			return t, domain.ValidationError{Field: "itinerary_json", Msg: "must be valid JSON"}
		}
		t.Itinerary = in.Itinerary
	}

	if t.Title == "" {
		t.Title = "New Trip"
	}
	if t.Destination == "" {
		t.Destination = "TBD"
	}
	if len(t.Currency) != 3 {
		return t, domain.ValidationError{Field: "currency", Msg: "must be a 3-letter code"}
	}
	if !tripStatuses[t.Status] {
		return t, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}
	if t.Budget != nil && *t.Budget < 0 {
		return t, domain.ValidationError{Field: "budget", Msg: "must not be negative"}
	}
	if t.MaxBuddies < 1 {
		return t, domain.ValidationError{Field: "max_buddies", Msg: "must be at least 1"}
	}
	return withDuration(t)
}

// withDuration checks the date range and derives duration_days (inclusive)
// when the client did not send one.
func withDuration(t models.Trip) (models.Trip, error) {
	var start, end time.Time
	var err error
	if t.StartDate != "" {
		if start, err = utils.ParseDate(t.StartDate); err != nil {
			return t, domain.ValidationError{Field: "start_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
	}
	if t.EndDate != "" {
		if end, err = utils.ParseDate(t.EndDate); err != nil {
			return t, domain.ValidationError{Field: "end_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
	}
	if !start.IsZero() && !end.IsZero() {
		if end.Before(start) {
			return t, domain.ValidationError{Field: "end_date", Msg: "must not be before start_date"}
		}
		if t.DurationDays <= 0 {
			t.DurationDays = int(end.Sub(start).Hours()/24) + 1
		}
	}
	if t.DurationDays < 0 {
		return t, domain.ValidationError{Field: "duration_days", Msg: "must not be negative"}
	}
	return t, nil
}
