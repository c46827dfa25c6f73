package service

import (
	"context"
	"errors"
	"fmt"
	"linerelay/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, userText string) (string, error) {
	args := m.Called(ctx, userText)
	return args.String(0), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Reply(ctx context.Context, reply domain.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func TestDispatcher_Handle(t *testing.T) {
	completionErr := fmt.Errorf("%w: overloaded", domain.ErrCompletionFailed)
	replyErr := fmt.Errorf("%w: invalid reply token", domain.ErrReplyFailed)

	textEvent := domain.Event{
		Kind:        domain.EventMessage,
		MessageKind: domain.MessageText,
		ReplyToken:  "token-1",
		Text:        "สวัสดี",
		SourceType:  "message",
	}

	tests := []struct {
		name        string
		event       domain.Event
		setupMock   func(g *MockGenerator, s *MockSender)
		wantOutcome domain.Outcome
		wantErrs    []error
	}{
		{
			name:        "non message event is ignored",
			event:       domain.Event{Kind: domain.EventOther, ReplyToken: "token-2", SourceType: "follow"},
			setupMock:   func(_ *MockGenerator, _ *MockSender) {},
			wantOutcome: domain.Ignored,
		},
		{
			name: "non text message is ignored",
			event: domain.Event{Kind: domain.EventMessage, MessageKind: domain.MessageOther,
				ReplyToken: "token-3", SourceType: "message"},
			setupMock:   func(_ *MockGenerator, _ *MockSender) {},
			wantOutcome: domain.Ignored,
		},
		{
			name:  "generated text is replied with the event token",
			event: textEvent,
			setupMock: func(g *MockGenerator, s *MockSender) {
				g.On("Generate", mock.Anything, "สวัสดี").Return("hello!", nil).Once()
				s.On("Reply", mock.Anything, domain.Reply{ReplyToken: "token-1", Text: "hello!"}).
					Return(nil).Once()
			},
			wantOutcome: domain.Replied,
		},
		{
			name:  "completion failure sends fallback",
			event: textEvent,
			setupMock: func(g *MockGenerator, s *MockSender) {
				g.On("Generate", mock.Anything, "สวัสดี").Return("", completionErr).Once()
				s.On("Reply", mock.Anything, domain.Reply{ReplyToken: "token-1", Text: "sorry"}).
					Return(nil).Once()
			},
			wantOutcome: domain.FallbackReplied,
			wantErrs:    []error{domain.ErrCompletionFailed},
		},
		{
			name:  "partial text is discarded on completion failure",
			event: textEvent,
			setupMock: func(g *MockGenerator, s *MockSender) {
				g.On("Generate", mock.Anything, "สวัสดี").Return("half an ans", completionErr).Once()
				s.On("Reply", mock.Anything, domain.Reply{ReplyToken: "token-1", Text: "sorry"}).
					Return(nil).Once()
			},
			wantOutcome: domain.FallbackReplied,
			wantErrs:    []error{domain.ErrCompletionFailed},
		},
		{
			name:  "reply failure is reported",
			event: textEvent,
			setupMock: func(g *MockGenerator, s *MockSender) {
				g.On("Generate", mock.Anything, "สวัสดี").Return("hello!", nil).Once()
				s.On("Reply", mock.Anything, mock.Anything).Return(replyErr).Once()
			},
			wantOutcome: domain.Undelivered,
			wantErrs:    []error{domain.ErrReplyFailed},
		},
		{
			name:  "fallback reply failure reports both causes",
			event: textEvent,
			setupMock: func(g *MockGenerator, s *MockSender) {
				g.On("Generate", mock.Anything, "สวัสดี").Return("", completionErr).Once()
				s.On("Reply", mock.Anything, domain.Reply{ReplyToken: "token-1", Text: "sorry"}).
					Return(replyErr).Once()
			},
			wantOutcome: domain.Undelivered,
			wantErrs:    []error{domain.ErrCompletionFailed, domain.ErrReplyFailed},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := new(MockGenerator)
			s := new(MockSender)
			tc.setupMock(g, s)

			d := NewDispatcher(g, s, "sorry")
			result := d.Handle(t.Context(), tc.event)

			assert.Equal(t, tc.wantOutcome, result.Outcome)
			if len(tc.wantErrs) == 0 {
				require.NoError(t, result.Err)
			}
			for _, want := range tc.wantErrs {
				assert.ErrorIs(t, result.Err, want)
			}

			g.AssertExpectations(t)
			s.AssertExpectations(t)
			if tc.wantOutcome == domain.Ignored {
				assert.Empty(t, g.Calls)
				assert.Empty(t, s.Calls)
			} else {
				s.AssertNumberOfCalls(t, "Reply", 1)
			}
		})
	}
}

func TestNewDispatcher_DefaultFallback(t *testing.T) {
	g := new(MockGenerator)
	s := new(MockSender)
	g.On("Generate", mock.Anything, "hi").Return("", errors.New("boom")).Once()
	s.On("Reply", mock.Anything, domain.Reply{ReplyToken: "t", Text: domain.DefaultFallback}).Return(nil).Once()

	d := NewDispatcher(g, s, "")
	result := d.Handle(t.Context(), domain.Event{
		Kind: domain.EventMessage, MessageKind: domain.MessageText, ReplyToken: "t", Text: "hi"})

	assert.Equal(t, domain.FallbackReplied, result.Outcome)
	s.AssertExpectations(t)
}
