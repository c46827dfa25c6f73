package generator

import (
	"context"
	"fmt"
	"linerelay/internal/core/domain"

	"github.com/revrost/go-openrouter"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

type OpenRouter struct {
	client       chatClient
	model        string
	systemPrompt string
	maxTokens    int
}

func NewOpenRouter(apiKey string, settings Settings) *OpenRouter {
	return &OpenRouter{
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("linerelay"),
		),
		model:        settings.Model,
		systemPrompt: settings.SystemPrompt,
		maxTokens:    settings.MaxTokens,
	}
}

func (o *OpenRouter) Generate(ctx context.Context, userText string) (string, error) {
	ccr := openrouter.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: o.systemPrompt},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: userText},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", fmt.Errorf("%w: openrouter API error: %w", domain.ErrCompletionFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content.Text == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrCompletionFailed, domain.ErrEmptyCompletion)
	}

	return resp.Choices[0].Message.Content.Text, nil
}
