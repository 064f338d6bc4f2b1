// Package assistant answers travel questions. Canned answers and previously
// stored answers are served first; only new questions reach the model.
package assistant

import (
	"context"
	"strings"

	"utrippin/internal/domain"
	"utrippin/internal/domain/models"
	"utrippin/internal/utils"
)

// AnswerStore keeps model answers keyed by CacheKey.
type AnswerStore interface {
	FindAnswer(ctx context.Context, key string) (string, bool, error)
	SaveAnswer(ctx context.Context, key, answer string) error
}

type Assistant struct {
	Store     AnswerStore
	Generator Generator
	MaxTurns  int
}

func (a Assistant) maxTurns() int {
	if a.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return a.MaxTurns
}

// Chat answers prompt given the earlier turns. Store failures are logged
// and never fail the request.
func (a Assistant) Chat(ctx context.Context, requestID string, history []models.ChatMessage, prompt string) (models.ChatReply, error) {
	if strings.TrimSpace(prompt) == "" {
		return models.ChatReply{}, domain.ValidationError{Field: "currentPrompt", Msg: "is required"}
	}

	if text, ok := CommonResponse(prompt); ok {
		return models.ChatReply{Text: text, CostOptimized: true, Source: SourceCommon}, nil
	}

	key := CacheKey(prompt)
	if a.Store != nil {
		answer, found, err := a.Store.FindAnswer(ctx, key)
		switch {
		case err != nil:
			utils.LogFailure(requestID, "assistant", "find_answer", err)
		case found:
			return models.ChatReply{Text: answer, CostOptimized: true, Source: SourceDatabase}, nil
		}
	}

	if a.Generator == nil {
		return models.ChatReply{}, domain.InternalError{Msg: "assistant model is not configured"}
	}

	limited := LimitHistory(history, a.maxTurns())
	text, err := a.Generator.Generate(ctx, limited, ConcisePrompt(prompt))
	if err != nil {
		return models.ChatReply{}, domain.InternalError{Msg: "assistant failed to answer", Err: err}
	}

	if a.Store != nil {
		if err := a.Store.SaveAnswer(ctx, key, text); err != nil {
			utils.LogFailure(requestID, "assistant", "save_answer", err)
		}
	}

	return models.ChatReply{
		Text:          text,
		CostOptimized: true,
		Source:        SourceModel,
		Optimizations: &models.ChatOptimizations{
			HistoryLimited:  len(limited) < len(history),
			PromptOptimized: true,
			OutputLimited:   true,
		},
	}, nil
}
