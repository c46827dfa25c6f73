package service

import (
	"context"
	"errors"
	"fmt"
	"linerelay/internal/core/domain"
	"linerelay/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type Dispatcher struct {
	generator       port.TextGenerator
	sender          port.ReplySender
	fallbackMessage string
}

func NewDispatcher(generator port.TextGenerator, sender port.ReplySender, fallbackMessage string) *Dispatcher {
	if fallbackMessage == "" {
		fallbackMessage = domain.DefaultFallback
	}

	return &Dispatcher{
		generator:       generator,
		sender:          sender,
		fallbackMessage: fallbackMessage,
	}
}

// Handle answers a text message with a generated reply, or with the fallback message when
// generation fails. Every other event kind is ignored without any outbound call.
func (d *Dispatcher) Handle(ctx context.Context, event domain.Event) domain.Result {
	if !event.IsTextMessage() {
		log.Debug().
			Str("type", event.SourceType).
			Str("messageKind", string(event.MessageKind)).
			Msg("ignoring unsupported event")
		return domain.Result{Outcome: domain.Ignored}
	}

	id, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate dispatch id")
	}

	l := log.With().
		Str("dispatchId", id.String()).
		Str("type", event.SourceType).
		Logger()

	l.Info().Msg("handling text message")
	l.Debug().Str("text", event.Text).Msg("user message")

	outcome := domain.Replied
	text, genErr := d.generator.Generate(ctx, event.Text)
	if genErr != nil {
		l.Error().Err(genErr).Msg("failed to generate reply, sending fallback")
		outcome = domain.FallbackReplied
		text = d.fallbackMessage
	} else {
		l.Debug().Str("reply", text).Msg("reply generated")
	}

	err = d.sender.Reply(ctx, domain.Reply{ReplyToken: event.ReplyToken, Text: text})
	if err != nil {
		l.Error().Err(err).Msg(domain.ErrReplyFailed.Error())
		return domain.Result{Outcome: domain.Undelivered, Err: errors.Join(genErr, err)}
	}

	l.Info().Str("outcome", string(outcome)).Msg("reply sent")

	if genErr != nil {
		return domain.Result{Outcome: outcome, Err: fmt.Errorf("replied with fallback: %w", genErr)}
	}

	return domain.Result{Outcome: outcome}
}
