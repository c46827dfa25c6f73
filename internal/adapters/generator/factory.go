package generator

import (
	"fmt"
	"linerelay/internal/core/port"
)

const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
)

// Settings are the fixed per-process completion parameters.
type Settings struct {
	Model        string
	SystemPrompt string
	MaxTokens    int
}

// New builds the completion client for the named provider.
func New(provider, apiKey string, settings Settings) (port.TextGenerator, error) {
	switch provider {
	case ProviderAnthropic:
		return NewClaude(apiKey, settings), nil
	case ProviderOpenRouter:
		return NewOpenRouter(apiKey, settings), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", provider)
	}
}
