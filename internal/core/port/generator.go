package port

import (
	"context"
)

type TextGenerator interface {
	// Generate returns the completion for a single user message. Errors wrap domain.ErrCompletionFailed.
	Generate(ctx context.Context, userText string) (string, error)
}
