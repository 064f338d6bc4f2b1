package events

import (
	"context"
	"encoding/json"
	"fmt"

	"utrippin/internal/domain/models"
)

// MessageSender is the part of Producer the publishers need.
type MessageSender interface {
	SendMessage(ctx context.Context, key, value []byte) error
}

// AlertPublisher emits usage alert notifications keyed by alert id, so
// repeated alerts for one config stay on one partition.
type AlertPublisher struct {
	Sender MessageSender
}

func (p AlertPublisher) Configured() bool {
	return p.Sender != nil
}

func (p AlertPublisher) PublishAlert(ctx context.Context, n models.AlertNotification) error {
	if p.Sender == nil {
		return fmt.Errorf("alert publisher not configured")
	}
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	return p.Sender.SendMessage(ctx, []byte(n.AlertID), body)
}
