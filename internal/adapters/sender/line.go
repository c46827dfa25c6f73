package sender

import (
	"context"
	"fmt"
	"linerelay/internal/core/domain"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog/log"
)

// LineMessageLimit is the maximum length of a LINE text message in characters.
const LineMessageLimit = 5000

type replier interface {
	ReplyMessage(replyMessageRequest *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

type Line struct {
	api func(ctx context.Context) replier
}

func NewLine(api *messaging_api.MessagingApiAPI) *Line {
	return &Line{api: func(ctx context.Context) replier {
		return api.WithContext(ctx)
	}}
}

// NewLineFromToken creates the messaging API client for a channel access token.
func NewLineFromToken(channelToken string, opts ...messaging_api.MessagingApiAPIOption) (*Line, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed initializing line messaging api: %w", err)
	}

	return NewLine(api), nil
}

func (s *Line) Reply(ctx context.Context, reply domain.Reply) error {
	if reply.ReplyToken == "" {
		return fmt.Errorf("%w: empty reply token", domain.ErrReplyFailed)
	}

	_, err := s.api(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: reply.ReplyToken,
		Messages: []messaging_api.MessageInterface{
			&messaging_api.TextMessage{Text: truncate(reply.Text, LineMessageLimit)},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send line reply")
		return fmt.Errorf("%w: %w", domain.ErrReplyFailed, err)
	}

	return nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit])
}
