package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"utrippin/internal/cache"
	"utrippin/internal/domain/models"
	"utrippin/internal/repositories"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

type memTrips struct {
	trips map[string]models.Trip
	apps  map[string]models.TripApplication
}

func newMemTrips(trips ...models.Trip) *memTrips {
	m := &memTrips{trips: map[string]models.Trip{}, apps: map[string]models.TripApplication{}}
	for _, t := range trips {
		m.trips[t.ID] = t
	}
	return m
}

func (m *memTrips) Create(_ context.Context, t models.Trip) error {
	m.trips[t.ID] = t
	return nil
}

func (m *memTrips) GetByID(_ context.Context, id string) (models.Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return models.Trip{}, sql.ErrNoRows
	}
	t.SpotsAvailable = max(t.MaxBuddies-t.ParticipantsCount, 0)
	return t, nil
}

func (m *memTrips) Update(_ context.Context, t models.Trip) error {
	if _, ok := m.trips[t.ID]; !ok {
		return sql.ErrNoRows
	}
	m.trips[t.ID] = t
	return nil
}

func (m *memTrips) Delete(_ context.Context, id string) error {
	if _, ok := m.trips[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.trips, id)
	return nil
}

func (m *memTrips) ListByUser(_ context.Context, userID string) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrips) ListPublic(_ context.Context, f models.TripFilters) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range m.trips {
		if t.Public {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrips) SearchDestinations(_ context.Context, q string, limit int) ([]string, error) {
	return []string{q}, nil
}

func (m *memTrips) PopularDestinations(_ context.Context, limit int) ([]models.DestinationCount, error) {
	return []models.DestinationCount{}, nil
}

func (m *memTrips) CreateApplication(_ context.Context, a models.TripApplication) error {
	key := a.TripID + "/" + a.FromUser
	if _, ok := m.apps[key]; ok {
		return repositories.ErrDuplicate
	}
	m.apps[key] = a
	return nil
}

type memProfiles struct {
	profiles map[string]models.TravelerProfile
	swipes   map[string]bool
	matches  []models.BuddyMatch
}

func (m *memProfiles) GetProfile(_ context.Context, id string) (models.TravelerProfile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return p, sql.ErrNoRows
	}
	return p, nil
}

func (m *memProfiles) ListPublicProfiles(_ context.Context, excludeID string, _ int) ([]models.TravelerProfile, error) {
	out := []models.TravelerProfile{}
	for id, p := range m.profiles {
		if id != excludeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProfiles) SaveProfile(_ context.Context, p models.TravelerProfile) error {
	if m.profiles == nil {
		m.profiles = map[string]models.TravelerProfile{}
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *memProfiles) RecordSwipe(_ context.Context, s models.Swipe) error {
	if m.swipes == nil {
		m.swipes = map[string]bool{}
	}
	m.swipes[s.SwiperID+"->"+s.SwipedID] = s.Liked
	return nil
}

func (m *memProfiles) HasLiked(_ context.Context, swiper, swiped string) (bool, error) {
	return m.swipes[swiper+"->"+swiped], nil
}

func (m *memProfiles) CreateMatch(_ context.Context, bm models.BuddyMatch) error {
	m.matches = append(m.matches, bm)
	return nil
}

func (m *memProfiles) ListMatches(_ context.Context, userID string) ([]models.BuddyMatch, error) {
	return m.matches, nil
}

type memUsage struct {
	mu      sync.Mutex
	calls   map[string]int
	summary []models.UsageSummary
	alerts  []models.UsageAlert
	stamped map[string]time.Time
}

func (m *memUsage) TrackCall(_ context.Context, provider, endpoint, month string, _ float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[provider+"/"+endpoint+"/"+month]++
	return nil
}

func (m *memUsage) MonthlySummary(_ context.Context, _ string) ([]models.UsageSummary, error) {
	return m.summary, nil
}

func (m *memUsage) ListAlerts(_ context.Context, activeOnly bool) ([]models.UsageAlert, error) {
	out := []models.UsageAlert{}
	for _, a := range m.alerts {
		if !activeOnly || a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memUsage) CreateAlert(_ context.Context, a models.UsageAlert) error {
	m.alerts = append(m.alerts, a)
	return nil
}

func (m *memUsage) DeactivateAlert(_ context.Context, id string) error {
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].IsActive = false
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memUsage) MarkAlertSent(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stamped == nil {
		m.stamped = map[string]time.Time{}
	}
	m.stamped[id] = at
	return nil
}

type memNotifier struct {
	sent []models.AlertNotification
	err  error
}

func (n *memNotifier) Configured() bool { return true }

func (n *memNotifier) PublishAlert(_ context.Context, a models.AlertNotification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, a)
	return nil
}

type staticSource struct {
	offers []models.Offer
	err    error
	got    models.FlightSearchRequest
}

func (s *staticSource) Search(_ context.Context, req models.FlightSearchRequest) ([]models.Offer, error) {
	s.got = req
	return s.offers, s.err
}

type memHistory struct {
	records []models.SearchRecord
}

func (h *memHistory) RecordSearch(_ context.Context, r models.SearchRecord) error {
	h.records = append(h.records, r)
	return nil
}

var _ SearchStore = (*cache.Searches)(nil)
