// Package cache keeps short-lived state in redis: flight search results and
// idempotency records.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"utrippin/internal/domain/models"
)

const searchKeyPrefix = "flightsearch:"

// ErrMiss means the entry never existed or has expired.
var ErrMiss = errors.New("cache miss")

// SearchEntry is one stored flight search.
type SearchEntry struct {
	ID        string                     `json:"id"`
	Request   models.FlightSearchRequest `json:"request"`
	Offers    []models.Offer             `json:"offers"`
	CreatedAt time.Time                  `json:"created_at"`
}

// Searches stores search results in redis. Without a client it falls back
// to process memory, which only suits a single instance.
type Searches struct {
	client *redis.Client
	ttl    time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
	now func() time.Time
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewSearches(client *redis.Client, ttl time.Duration) *Searches {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Searches{
		client: client,
		ttl:    ttl,
		mem:    map[string]memEntry{},
		now:    time.Now,
	}
}

func (s *Searches) TTL() time.Duration { return s.ttl }

func (s *Searches) Put(ctx context.Context, e SearchEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode search: %w", err)
	}
	key := searchKeyPrefix + e.ID

	if s.client == nil {
		now := s.now()
		s.mu.Lock()
		for k, old := range s.mem {
			if !now.Before(old.expiresAt) {
				delete(s.mem, k)
			}
		}
		s.mem[key] = memEntry{data: data, expiresAt: now.Add(s.ttl)}
		s.mu.Unlock()
		return nil
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store search: %w", err)
	}
	return nil
}

func (s *Searches) Get(ctx context.Context, id string) (SearchEntry, error) {
	key := searchKeyPrefix + id

	var data []byte
	if s.client == nil {
		s.mu.Lock()
		e, ok := s.mem[key]
		if ok && !s.now().Before(e.expiresAt) {
			delete(s.mem, key)
			ok = false
		}
		s.mu.Unlock()
		if !ok {
			return SearchEntry{}, ErrMiss
		}
		data = e.data
	} else {
		val, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return SearchEntry{}, ErrMiss
		}
		if err != nil {
			return SearchEntry{}, fmt.Errorf("load search: %w", err)
		}
		data = val
	}

	var entry SearchEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return SearchEntry{}, fmt.Errorf("decode search: %w", err)
	}
	return entry, nil
}
