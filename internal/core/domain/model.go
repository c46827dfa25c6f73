package domain

type EventKind string

const (
	EventMessage EventKind = "message"
	EventOther   EventKind = "other"
)

type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageOther MessageKind = "other"
)

// Event is a single inbound webhook event, reduced to what the dispatcher needs.
type Event struct {
	Kind        EventKind
	MessageKind MessageKind
	ReplyToken  string
	Text        string
	// SourceType is the platform's raw event type, kept for logging only.
	SourceType string
}

// IsTextMessage reports whether the event is a text message the bot answers.
func (e Event) IsTextMessage() bool {
	return e.Kind == EventMessage && e.MessageKind == MessageText
}

// Reply is consumed exactly once by a ReplySender. Reply tokens are single use.
type Reply struct {
	ReplyToken string
	Text       string
}

type Outcome string

const (
	// Ignored events produce no outbound call.
	Ignored Outcome = "ignored"
	// Replied means the generated text was delivered.
	Replied Outcome = "replied"
	// FallbackReplied means generation failed and the fallback message was delivered.
	FallbackReplied Outcome = "fallback_replied"
	// Undelivered means the reply call itself failed.
	Undelivered Outcome = "undelivered"
)

// Result is the per-event dispatch result. Err carries the completion and/or reply failure.
type Result struct {
	Outcome Outcome
	Err     error
}

type CompletionRequest struct {
	Model        string
	SystemPrompt string
	MaxTokens    int
	UserText     string
}
