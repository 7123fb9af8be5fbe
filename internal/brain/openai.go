package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatBackend is the primary backend: an instruction-following chat model
// behind any OpenAI-compatible endpoint.
type ChatBackend struct {
	client *openai.Client
	model  string
}

// CompletionBackend is the secondary backend: a plain causal completion
// model, for servers that only expose the legacy completions API.
type CompletionBackend struct {
	client *openai.Client
	model  string
}

func newClient(apiKey, baseURL, model string) (*openai.Client, error) {
	if strings.TrimSpace(apiKey) == "" && strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("no api key and no base url configured")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("no model configured")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

func NewChatBackend(apiKey, baseURL, model string) (*ChatBackend, error) {
	client, err := newClient(apiKey, baseURL, model)
	if err != nil {
		return nil, err
	}
	return &ChatBackend{client: client, model: model}, nil
}

func (b *ChatBackend) Name() string { return "chat:" + b.model }

func (b *ChatBackend) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion had no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func NewCompletionBackend(apiKey, baseURL, model string) (*CompletionBackend, error) {
	client, err := newClient(apiKey, baseURL, model)
	if err != nil {
		return nil, err
	}
	return &CompletionBackend{client: client, model: model}, nil
}

func (b *CompletionBackend) Name() string { return "completion:" + b.model }

func (b *CompletionBackend) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := b.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     b.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
		N:         1,
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion had no choices")
	}
	return resp.Choices[0].Text, nil
}
