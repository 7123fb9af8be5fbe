package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/omkarw/bestbuddy/internal/langid"
)

var langNames = map[langid.Lang]string{
	langid.LangEnglish: "English",
	langid.LangHindi:   "Hindi",
	langid.LangMarathi: "Marathi",
}

// OpenAIBackend translates through any OpenAI-compatible chat endpoint.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a translation backend against baseURL (empty for
// the default API endpoint).
func NewOpenAIBackend(apiKey, baseURL, model string) (*OpenAIBackend, error) {
	if strings.TrimSpace(apiKey) == "" && strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("no api key and no base url configured")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("no translation model configured")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (b *OpenAIBackend) Translate(ctx context.Context, text string, source, target langid.Lang) (string, error) {
	instruction := fmt.Sprintf(
		"Translate the user's message from %s to %s. Reply with only the translation, nothing else.",
		langNames[source], langNames[target],
	)
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("translation response had no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
