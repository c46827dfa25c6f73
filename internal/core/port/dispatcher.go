package port

import (
	"context"
	"linerelay/internal/core/domain"
)

type EventDispatcher interface {
	// Handle processes one inbound event best effort. Failures are reported in the Result, never returned.
	Handle(ctx context.Context, event domain.Event) domain.Result
}
