package port

import (
	"context"
	"linerelay/internal/core/domain"
)

type ReplySender interface {
	// Reply sends text against a single-use reply token. Errors wrap domain.ErrReplyFailed.
	Reply(ctx context.Context, reply domain.Reply) error
}
