package agent

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/llm"
)

// nudgeText is appended as a synthetic user message when the model
// returns an empty reply with no tool requests. It is never persisted.
const nudgeText = "Respond with a real output."

// maxNudges bounds re-prompting for an empty model reply.
const maxNudges = 2

// Stepper performs a single agent step: one model invocation over the
// sanitized, truncated history, yielding either a direct reply or a
// set of requested tool calls.
type Stepper struct {
	client llm.Client
	model  string
	defs   []llm.ToolDef
	logger *slog.Logger
}

// NewStepper creates a stepper using the given model and tool
// definitions.
func NewStepper(client llm.Client, model string, defs []llm.ToolDef, logger *slog.Logger) *Stepper {
	return &Stepper{client: client, model: model, defs: defs, logger: logger}
}

// Step invokes the model once over the history. An empty reply with no
// tool calls is re-prompted with a synthetic nudge message; the nudge
// stays local to this invocation. The context budget is applied to the
// wire messages, not the stored history.
func (s *Stepper) Step(ctx context.Context, system string, history []Message) (Message, error) {
	working := Truncate(history)

	for nudges := 0; ; nudges++ {
		resp, err := s.client.Chat(ctx, s.model, toWire(system, working), s.defs)
		if err != nil {
			return Message{}, err
		}

		msg := Message{
			Kind:        KindAssistant,
			Content:     resp.Message.Content,
			ToolCalls:   resp.Message.ToolCalls,
			TotalTokens: resp.TotalTokens,
		}
		if msg.Content != "" || len(msg.ToolCalls) > 0 {
			return msg, nil
		}

		if nudges >= maxNudges {
			return Message{}, errors.New("model returned an empty response")
		}
		s.logger.Debug("empty model response, re-prompting")
		working = append(working, UserMessage(nudgeText))
	}
}
