package chat

import (
	"context"
	"fmt"

	"github.com/op/go-logging"

	"business-advisor/completion"
)

var log = logging.MustGetLogger("log")

// HistoryWindow is how many trailing messages accompany each request.
// Older history is truncated, never summarized.
const HistoryWindow = 12

// ErrNotConfigured is returned for turns sent before the session has an
// active instruction (data mode without an uploaded profile).
var ErrNotConfigured = fmt.Errorf("session has no active instruction: upload data first")

// Orchestrator runs one user turn: record the message, assemble the
// bounded outbound payload, call the completion endpoint, record the
// reply.
type Orchestrator struct {
	client completion.Client
	params completion.Params
	window int
}

func NewOrchestrator(client completion.Client, params completion.Params, window int) *Orchestrator {
	if window <= 0 {
		window = HistoryWindow
	}
	return &Orchestrator{client: client, params: params, window: window}
}

// HandleTurn blocks the session for the duration of the remote call, so
// turns on one session never interleave. On completion failure the
// user's message stays recorded; a retry resends it as part of history.
func (o *Orchestrator) HandleTurn(ctx context.Context, s *Session, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.instruction == "" {
		return "", ErrNotConfigured
	}

	s.messages = append(s.messages, completion.Message{
		Role:    completion.RoleUser,
		Content: text,
	})

	payload := o.buildPayload(s.instruction, s.messages)

	reply, err := o.client.Complete(ctx, payload, o.params)
	if err != nil {
		log.Errorf("Completion call failed for session %s: %v", s.id, err)
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	s.messages = append(s.messages, completion.Message{
		Role:    completion.RoleAssistant,
		Content: reply,
	})
	return reply, nil
}

// buildPayload prefixes the system instruction to the most recent
// `window` messages.
func (o *Orchestrator) buildPayload(instruction string, messages []completion.Message) []completion.Message {
	history := messages
	if len(history) > o.window {
		history = history[len(history)-o.window:]
	}

	payload := make([]completion.Message, 0, len(history)+1)
	payload = append(payload, completion.Message{
		Role:    completion.RoleSystem,
		Content: instruction,
	})
	payload = append(payload, history...)
	return payload
}
