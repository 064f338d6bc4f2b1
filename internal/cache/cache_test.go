package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utrippin/internal/domain/models"
)

func TestSearchesMemoryRoundTrip(t *testing.T) {
	s := NewSearches(nil, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	entry := SearchEntry{
		ID:      "abc",
		Request: models.FlightSearchRequest{Origin: "JFK", Destination: "LHR"},
		Offers:  []models.Offer{{ID: "off_1", TotalAmount: "10.00"}},
	}
	require.NoError(t, s.Put(context.Background(), entry))

	got, err := s.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "JFK", got.Request.Origin)
	require.Len(t, got.Offers, 1)

	now = now.Add(time.Minute)
	_, err = s.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSearchesMemorySweepsExpiredOnPut(t *testing.T) {
	s := NewSearches(nil, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, s.Put(context.Background(), SearchEntry{ID: fmt.Sprintf("old-%d", i)}))
	}
	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Put(context.Background(), SearchEntry{ID: "fresh"}))

	s.mu.Lock()
	held := len(s.mem)
	s.mu.Unlock()
	assert.Equal(t, 1, held)

	_, err := s.Get(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestSearchesDefaultTTL(t *testing.T) {
	assert.Equal(t, 30*time.Minute, NewSearches(nil, 0).TTL())
}

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSearchesRedisErrorsSurface(t *testing.T) {
	s := NewSearches(unreachableRedis(t), time.Minute)

	err := s.Put(context.Background(), SearchEntry{ID: "x"})
	assert.Error(t, err)

	_, err = s.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestIdempotencyEnabled(t *testing.T) {
	var nilStore *Idempotency
	assert.False(t, nilStore.Enabled())
	assert.False(t, NewIdempotency(nil).Enabled())

	store := NewIdempotency(unreachableRedis(t))
	assert.True(t, store.Enabled())

	_, err := store.Begin(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInProgress)
}
