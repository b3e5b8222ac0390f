package llm

import "context"

// Client is implemented by chat completion providers.
type Client interface {
	// Chat sends the conversation to the model and returns its reply.
	// tools may be nil when no tool use is wanted.
	Chat(ctx context.Context, model string, messages []Message, tools []ToolDef) (*ChatResponse, error)
}
