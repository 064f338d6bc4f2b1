package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utrippin/internal/domain/models"
)

type recordingSender struct {
	keys   []string
	values [][]byte
	err    error
}

func (r *recordingSender) SendMessage(_ context.Context, key, value []byte) error {
	r.keys = append(r.keys, string(key))
	r.values = append(r.values, value)
	return r.err
}

func TestAlertPublisher(t *testing.T) {
	sender := &recordingSender{}
	p := AlertPublisher{Sender: sender}
	require.True(t, p.Configured())

	n := models.AlertNotification{
		AlertID:    "alert-1",
		Severity:   "CRITICAL",
		Recipient:  "ops@example.com",
		Threshold:  90,
		OccurredAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Usage:      models.UsageSummary{Provider: "duffel", Endpoint: "offer_requests", UsagePercentage: 95},
	}
	require.NoError(t, p.PublishAlert(context.Background(), n))
	require.Equal(t, []string{"alert-1"}, sender.keys)

	var decoded models.AlertNotification
	require.NoError(t, json.Unmarshal(sender.values[0], &decoded))
	assert.Equal(t, "duffel", decoded.Usage.Provider)
	assert.Equal(t, 95.0, decoded.Usage.UsagePercentage)
}

func TestAlertPublisherErrors(t *testing.T) {
	assert.False(t, AlertPublisher{}.Configured())
	assert.Error(t, AlertPublisher{}.PublishAlert(context.Background(), models.AlertNotification{}))

	boom := errors.New("broker down")
	err := AlertPublisher{Sender: &recordingSender{err: boom}}.PublishAlert(context.Background(), models.AlertNotification{})
	assert.ErrorIs(t, err, boom)
}

func TestNewProducerTopic(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "usage-alerts"})
	assert.Equal(t, "usage-alerts", p.Topic())
	assert.NoError(t, p.Close())
}
