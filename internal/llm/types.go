// Package llm defines the chat completion client interface and wire types
// shared by providers.
package llm

// Message is a single message in a chat conversation.
type Message struct {
	Role       string     `json:"role"` // "system", "user", "assistant", "tool"
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on role "tool"
}

// ToolCall is an assistant's request to invoke a tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the tool and carries its decoded arguments.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolDef describes a tool offered to the model, in JSON Schema form.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatResponse is the provider-neutral result of one chat completion.
type ChatResponse struct {
	Message     Message
	Model       string
	TotalTokens int // prompt + completion tokens for this exchange
}
