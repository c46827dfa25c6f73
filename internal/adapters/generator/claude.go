package generator

import (
	"context"
	"fmt"
	"linerelay/internal/core/domain"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type messageClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams,
		opts ...option.RequestOption) (*anthropic.Message, error)
}

type Claude struct {
	client       messageClient
	model        string
	systemPrompt string
	maxTokens    int
}

func NewClaude(apiKey string, settings Settings, opts ...option.RequestOption) *Claude {
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Claude{
		client:       &client.Messages,
		model:        settings.Model,
		systemPrompt: settings.SystemPrompt,
		maxTokens:    settings.MaxTokens,
	}
}

func (c *Claude) Generate(ctx context.Context, userText string) (string, error) {
	resp, err := c.client.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: c.systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userText)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: claude API error: %w", domain.ErrCompletionFailed, err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("%w: %w", domain.ErrCompletionFailed, domain.ErrEmptyCompletion)
}
