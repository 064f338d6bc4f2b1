package services

import (
	"context"
	"time"

	"utrippin/internal/assistant"
	"utrippin/internal/domain/models"
	"utrippin/internal/metrics"
	"utrippin/internal/utils"
)

const (
	modelProvider = "gemini"
	modelEndpoint = "generate_content"
)

// ChatService wraps the assistant with metrics and model usage accounting.
type ChatService struct {
	Assistant assistant.Assistant
	Usage     UsageRecorder
	RequestID string
	Now       func() time.Time
}

func (s ChatService) Chat(ctx context.Context, history []models.ChatMessage, prompt string) (models.ChatReply, error) {
	reply, err := s.Assistant.Chat(ctx, s.RequestID, history, prompt)
	if err != nil {
		return reply, err
	}
	metrics.AssistantAnswers.WithLabelValues(reply.Source).Inc()

	if reply.Source == assistant.SourceModel && s.Usage != nil {
		if err := s.Usage.TrackCall(ctx, modelProvider, modelEndpoint, utils.MonthKey(nowOr(s.Now)), 0); err != nil {
			utils.LogFailure(s.RequestID, "assistant", "track_usage", err)
		}
	}
	return reply, nil
}
