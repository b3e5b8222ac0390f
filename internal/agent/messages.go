// Package agent implements the conversational support assistant: the
// orchestration loop that alternates between model invocations and tool
// execution, the per-thread message history, and the history
// sanitation that keeps the context window sane.
package agent

import (
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/llm"
)

// Kind discriminates the message variants in a conversation thread.
type Kind int

const (
	KindUser Kind = iota
	KindAssistant
	KindTool
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAssistant:
		return "assistant"
	case KindTool:
		return "tool"
	default:
		return "unknown"
	}
}

// Message is one turn in a conversation thread.
//
// User messages carry only Content. Assistant messages carry Content
// and/or ToolCalls, plus the token usage reported for the exchange.
// Tool messages carry the result of one tool call, keyed by ToolCallID.
type Message struct {
	Kind        Kind
	Content     string
	ToolCalls   []llm.ToolCall
	ToolCallID  string
	IsError     bool
	TotalTokens int
}

// UserMessage builds a user turn.
func UserMessage(text string) Message {
	return Message{Kind: KindUser, Content: text}
}

// Substantive reports whether an assistant message completes an
// exchange: it has real textual content and token usage attached.
func (m Message) Substantive() bool {
	return m.Kind == KindAssistant && m.Content != "" && m.TotalTokens > 0
}

// toWire converts thread messages to the provider wire format, with
// the system prompt prepended.
func toWire(system string, history []Message) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	out = append(out, llm.Message{Role: "system", Content: system})
	for _, m := range history {
		out = append(out, llm.Message{
			Role:       m.Kind.String(),
			Content:    m.Content,
			ToolCalls:  m.ToolCalls,
			ToolCallID: m.ToolCallID,
		})
	}
	return out
}
