package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "idempotency:"
	processingMarker  = "PROCESSING"

	DefaultLockTTL   = 10 * time.Second
	DefaultResultTTL = 24 * time.Hour
)

// ErrInProgress means another request holds the key.
var ErrInProgress = errors.New("request with this idempotency key is in progress")

// StoredResponse is a replayable response.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency locks keys with SETNX while a request runs and keeps the
// response for replay afterwards.
type Idempotency struct {
	client    *redis.Client
	lockTTL   time.Duration
	resultTTL time.Duration
}

func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client, lockTTL: DefaultLockTTL, resultTTL: DefaultResultTTL}
}

func (i *Idempotency) Enabled() bool { return i != nil && i.client != nil }

// Begin returns the stored response when the key already completed. When it
// returns (nil, nil) the caller owns the key and must Complete or Release it.
func (i *Idempotency) Begin(ctx context.Context, key string) (*StoredResponse, error) {
	k := idempotencyPrefix + key

	val, err := i.client.Get(ctx, k).Result()
	switch {
	case err == nil && val == processingMarker:
		return nil, ErrInProgress
	case err == nil:
		var resp StoredResponse
		if err := json.Unmarshal([]byte(val), &resp); err != nil {
			return nil, fmt.Errorf("decode stored response: %w", err)
		}
		return &resp, nil
	case !errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	acquired, err := i.client.SetNX(ctx, k, processingMarker, i.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("lock idempotency key: %w", err)
	}
	if !acquired {
		return nil, ErrInProgress
	}
	return nil, nil
}

func (i *Idempotency) Complete(ctx context.Context, key string, resp StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return i.client.Set(ctx, idempotencyPrefix+key, data, i.resultTTL).Err()
}

// Release drops the lock so a failed request can be retried.
func (i *Idempotency) Release(ctx context.Context, key string) error {
	return i.client.Del(ctx, idempotencyPrefix+key).Err()
}
