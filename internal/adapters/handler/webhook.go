package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"linerelay/internal/core/domain"
	"linerelay/internal/core/port"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/sourcegraph/conc/pool"
)

const SignatureHeader = "X-Line-Signature"

type Webhook struct {
	channelSecret string
	dispatcher    port.EventDispatcher
}

func NewWebhook(channelSecret string, dispatcher port.EventDispatcher) *Webhook {
	return &Webhook{channelSecret: channelSecret, dispatcher: dispatcher}
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Receive verifies, parses and dispatches one webhook delivery. Signature failures are answered
// with 200 so the platform does not redeliver a request that can never succeed.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	l := hlog.FromRequest(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		l.Error().Err(err).Msg("failed to read webhook body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.verifySignature(r, body); err != nil {
		l.Warn().Err(err).Msg("rejecting webhook")
		writeJSON(w, l, errorResponse{Error: err.Error()})
		return
	}

	events, err := parseEvents(body)
	if err != nil {
		l.Error().Err(err).Msg("failed to parse webhook")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(events) == 0 {
		l.Info().Msg("webhook verified")
		writeJSON(w, l, successResponse{Success: true})
		return
	}

	l.Info().Int("events", len(events)).Msg("received events")

	// replies must go out even if the platform hangs up first
	results := h.dispatchAll(context.WithoutCancel(r.Context()), events)
	logResults(l, results)

	writeJSON(w, l, successResponse{Success: true})
}

// dispatchAll runs one task per event and waits for all of them. A panicking task is re-raised
// only after every sibling has settled.
func (h *Webhook) dispatchAll(ctx context.Context, events []domain.Event) []domain.Result {
	p := pool.NewWithResults[domain.Result]()
	for _, event := range events {
		p.Go(func() domain.Result {
			return h.dispatcher.Handle(ctx, event)
		})
	}

	return p.Wait()
}

func (h *Webhook) verifySignature(r *http.Request, body []byte) error {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return fmt.Errorf("%w: missing %s header", domain.ErrSignatureInvalid, SignatureHeader)
	}

	if !webhook.ValidateSignature(h.channelSecret, signature, body) {
		return domain.ErrSignatureInvalid
	}

	return nil
}

func parseEvents(body []byte) ([]domain.Event, error) {
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}

	events := make([]domain.Event, 0, len(cb.Events))
	for _, e := range cb.Events {
		events = append(events, toDomainEvent(e))
	}

	return events, nil
}

func toDomainEvent(e webhook.EventInterface) domain.Event {
	msg, ok := e.(webhook.MessageEvent)
	if !ok {
		return domain.Event{Kind: domain.EventOther, SourceType: e.GetType()}
	}

	event := domain.Event{
		Kind:        domain.EventMessage,
		MessageKind: domain.MessageOther,
		ReplyToken:  msg.ReplyToken,
		SourceType:  msg.GetType(),
	}

	if text, ok := msg.Message.(webhook.TextMessageContent); ok {
		event.MessageKind = domain.MessageText
		event.Text = text.Text
	}

	return event
}

func logResults(l *zerolog.Logger, results []domain.Result) {
	counts := make(map[domain.Outcome]int)
	for _, result := range results {
		counts[result.Outcome]++
		if result.Err != nil {
			l.Warn().Err(result.Err).Str("outcome", string(result.Outcome)).Msg("event handled with errors")
		}
	}

	l.Info().
		Int(string(domain.Ignored), counts[domain.Ignored]).
		Int(string(domain.Replied), counts[domain.Replied]).
		Int(string(domain.FallbackReplied), counts[domain.FallbackReplied]).
		Int(string(domain.Undelivered), counts[domain.Undelivered]).
		Msg("batch settled")
}

func writeJSON(w http.ResponseWriter, l *zerolog.Logger, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		l.Error().Err(err).Msg("failed to write response")
	}
}
