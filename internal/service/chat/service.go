package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const (
	// PreviewLimit is the number of prompt characters echoed back in a reply.
	PreviewLimit = 80
	// Ellipsis marks a truncated preview.
	Ellipsis = "..."
	// NoSession is interpolated when the caller did not select a session.
	NoSession = "not selected"
)

const (
	thinkingTemplate = "Reading the prompt and checking the selected session. " +
		"Portfolio, stock price and news lookups are not connected yet, so no analysis was run."
	replyTemplate = "Session: {session}. You asked: \"{preview}\". " +
		"The assistant is still a placeholder; live stock prices and news summaries will appear here once they are connected."
)

// Request is a single chat turn.
type Request struct {
	Prompt    string
	SessionID *string
}

// Reply is the echoed answer together with its placeholder reasoning.
type Reply struct {
	Reply    string `json:"reply"`
	Thinking string `json:"thinking"`
}

// Chunk is one piece of a streamed reply.
type Chunk struct {
	Event   string `json:"event"`
	Content string `json:"content,omitempty"`
}

const (
	EventThinking = "thinking"
	EventDelta    = "delta"
	EventDone     = "done"
)

// Service renders deterministic echo replies. It never reads session state.
type Service struct {
	template prompt.ChatTemplate
	logger   *slog.Logger
}

// NewService builds the echo responder.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		template: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage(thinkingTemplate),
			schema.AssistantMessage(replyTemplate, nil),
		),
		logger: logger.With("component", "chat-echo"),
	}
}

// Preview trims the prompt and cuts it to PreviewLimit characters.
func Preview(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) <= PreviewLimit {
		return trimmed
	}
	runes := []rune(trimmed)
	return string(runes[:PreviewLimit]) + Ellipsis
}

// Echo answers a prompt with a templated placeholder reply.
func (s *Service) Echo(ctx context.Context, req Request) (Reply, error) {
	sessionLabel := NoSession
	if req.SessionID != nil && *req.SessionID != "" {
		sessionLabel = *req.SessionID
	}

	messages, err := s.template.Format(ctx, map[string]any{
		"session": sessionLabel,
		"preview": Preview(req.Prompt),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("render chat reply: %w", err)
	}
	if len(messages) != 2 {
		return Reply{}, fmt.Errorf("render chat reply: expected 2 messages, got %d", len(messages))
	}

	s.logger.Debug("chat echo rendered", "session", sessionLabel, "prompt_chars", utf8.RuneCountInString(req.Prompt))
	return Reply{
		Thinking: messages[0].Content,
		Reply:    messages[1].Content,
	}, nil
}

// Stream renders the reply and hands it to emit as thinking, word deltas and a
// final done chunk carrying the full reply. Concatenating the deltas yields Reply.Reply.
func (s *Service) Stream(ctx context.Context, req Request, emit func(Chunk) error) (Reply, error) {
	reply, err := s.Echo(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	if err := emit(Chunk{Event: EventThinking, Content: reply.Thinking}); err != nil {
		return reply, err
	}
	for _, part := range strings.SplitAfter(reply.Reply, " ") {
		if part == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return reply, err
		}
		if err := emit(Chunk{Event: EventDelta, Content: part}); err != nil {
			return reply, err
		}
	}
	return reply, emit(Chunk{Event: EventDone, Content: reply.Reply})
}
