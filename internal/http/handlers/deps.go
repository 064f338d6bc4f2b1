package handlers

import (
	"sync"
	"time"

	"utrippin/internal/activities"
	"utrippin/internal/assistant"
	"utrippin/internal/repositories"
	"utrippin/internal/services"
	"utrippin/internal/utils"
)

// Deps are the shared collaborators handlers build services from. Nil
// stores fall back to the MySQL repositories on the shared pool.
type Deps struct {
	Offers        services.OfferSource
	Searches      services.SearchStore
	Matcher       *activities.Matcher
	Generator     assistant.Generator
	Notifier      services.AlertNotifier
	AlertCooldown time.Duration

	Trips        services.TripStore
	Profiles     services.ProfileStore
	Usage        services.UsageStore
	Interactions services.InteractionStore
	Answers      assistant.AnswerStore

	Now func() time.Time
}

var (
	depsMu  sync.RWMutex
	current Deps
)

func SetDeps(d Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()
	current = d
}

func deps() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	d := current
	if d.Trips == nil {
		d.Trips = repositories.TripRepository{}
	}
	if d.Profiles == nil {
		d.Profiles = repositories.ProfileRepository{}
	}
	if d.Usage == nil {
		d.Usage = repositories.UsageRepository{}
	}
	if d.Interactions == nil {
		d.Interactions = repositories.InteractionRepository{}
	}
	if d.Answers == nil {
		d.Answers = repositories.AnswerRepository{}
	}
	if d.Now == nil {
		d.Now = utils.NowUTC
	}
	return d
}
