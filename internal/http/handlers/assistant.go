package handlers

import (
	"net/http"
	"strings"

	"utrippin/internal/assistant"
	"utrippin/internal/destinations"
	"utrippin/internal/domain/models"
	"utrippin/internal/http/middleware"
	"utrippin/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/assistant/questions?location=
func GetSuggestedQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, destinations.SuggestedQuestions(c.Query("location")))
}

// chatRequest accepts "currentPrompt" as an alias of "prompt".
type chatRequest struct {
	Prompt        string               `json:"prompt"`
	CurrentPrompt string               `json:"currentPrompt"`
	History       []models.ChatMessage `json:"history"`
}

// POST /api/assistant/chat
func AssistantChat(c *gin.Context) {
	var req chatRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	prompt := req.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = req.CurrentPrompt
	}

	d := deps()
	svc := services.ChatService{
		Assistant: assistant.Assistant{Store: d.Answers, Generator: d.Generator},
		Usage:     d.Usage,
		RequestID: middleware.GetRequestID(c),
		Now:       d.Now,
	}
	reply, err := svc.Chat(c.Request.Context(), req.History, prompt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
