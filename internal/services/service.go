package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"utrippin/internal/utils"
)

// UsageRecorder counts vendor API calls for the usage alerts.
type UsageRecorder interface {
	TrackCall(ctx context.Context, provider, endpoint, month string, cost float64) error
}

func nowOr(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return utils.NowUTC()
}

func idOr(fn func() string) string {
	if fn != nil {
		return fn()
	}
	return uuid.NewString()
}
