package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"utrippin/internal/domain/models"
)

const DefaultModel = "gemini-2.0-flash"

var ErrEmptyResponse = errors.New("no response text generated")

// Generator produces an answer from prior turns and the current prompt.
type Generator interface {
	Generate(ctx context.Context, history []models.ChatMessage, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API with short-answer settings.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		config: GenerationConfig(),
	}, nil
}

// GenerationConfig caps output at 400 tokens and blocks medium-and-above
// harmful content.
func GenerationConfig() *genai.GenerateContentConfig {
	block := genai.HarmBlockThresholdBlockMediumAndAbove
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		TopK:            genai.Ptr[float32](40),
		TopP:            genai.Ptr[float32](0.8),
		MaxOutputTokens: 400,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: block},
			{Category: genai.HarmCategoryHateSpeech, Threshold: block},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: block},
			{Category: genai.HarmCategoryDangerousContent, Threshold: block},
		},
	}
}

// BuildContents maps chat turns onto Gemini roles; "bot" turns are the model.
func BuildContents(history []models.ChatMessage, prompt string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == "bot" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}

func (g *GeminiGenerator) Generate(ctx context.Context, history []models.ChatMessage, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, BuildContents(history, prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *GeminiGenerator) Model() string { return g.model }
