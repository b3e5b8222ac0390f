package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/llm"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/tools"
)

// mockLLM returns pre-configured responses in sequence and records each
// call. A nil entry in responses simulates a transport failure.
type mockLLM struct {
	mu        sync.Mutex
	responses []*llm.ChatResponse
	callIndex int
	calls     []mockLLMCall
}

type mockLLMCall struct {
	Model    string
	Messages []llm.Message
	Tools    []llm.ToolDef
}

func (m *mockLLM) Chat(_ context.Context, model string, msgs []llm.Message, defs []llm.ToolDef) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, mockLLMCall{Model: model, Messages: msgs, Tools: defs})

	if m.callIndex >= len(m.responses) {
		return nil, fmt.Errorf("mockLLM: no more responses (call %d)", m.callIndex)
	}
	resp := m.responses[m.callIndex]
	m.callIndex++
	if resp == nil {
		return nil, fmt.Errorf("mockLLM: simulated failure (call %d)", m.callIndex-1)
	}
	return resp, nil
}

func assistantText(content string, tokens int) *llm.ChatResponse {
	return &llm.ChatResponse{
		Model:       "test-model",
		Message:     llm.Message{Role: "assistant", Content: content},
		TotalTokens: tokens,
	}
}

func assistantToolCall(id, name string, args map[string]any) *llm.ChatResponse {
	return &llm.ChatResponse{
		Model: "test-model",
		Message: llm.Message{
			Role: "assistant",
			ToolCalls: []llm.ToolCall{{
				ID:       id,
				Function: llm.FunctionCall{Name: name, Arguments: args},
			}},
		},
		TotalTokens: 100,
	}
}

// buildTestLoop creates a Loop over a mock model and a registry with
// one no-op test tool. Returns the loop and the thread ID of a fresh
// conversation for the demo user.
func buildTestLoop(mock *mockLLM, toolResult string) (*Loop, *ThreadStore, string) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := tools.NewRegistry(nil, nil)
	reg.Register(&tools.Tool{
		Name:        "lookup_reservation",
		Description: "test tool",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			return toolResult, nil
		},
	})

	threads := NewThreadStore()
	threadID := threads.Create(rental.User{ID: 101, Name: "John Doe", Email: "john.doe@example.com"})

	loop := NewLoop(
		NewStepper(mock, "test-model", reg.Defs(), logger),
		NewDispatcher(reg, logger),
		threads,
		nil,
		logger,
	)
	return loop, threads, threadID
}

func TestRespond_DirectReply(t *testing.T) {
	mock := &mockLLM{
		responses: []*llm.ChatResponse{
			assistantText("Your booking is confirmed.", 120),
		},
	}
	loop, threads, threadID := buildTestLoop(mock, "")

	got := loop.Respond(context.Background(), threadID, "is my booking confirmed?")
	if got != "Your booking is confirmed." {
		t.Fatalf("Respond() = %q, want direct reply", got)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(mock.calls))
	}

	history, err := threads.Snapshot(threadID)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(history))
	}
	if history[0].Kind != KindUser || history[1].Kind != KindAssistant {
		t.Errorf("stored kinds = %v, %v; want user, assistant", history[0].Kind, history[1].Kind)
	}
}

func TestRespond_ToolRoundThenReply(t *testing.T) {
	mock := &mockLLM{
		responses: []*llm.ChatResponse{
			assistantToolCall("call-1", "lookup_reservation", map[string]any{}),
			assistantText("You have one pending booking.", 200),
		},
	}
	loop, _, threadID := buildTestLoop(mock, `{"success": true, "data": "one pending"}`)

	got := loop.Respond(context.Background(), threadID, "show my bookings")
	if got != "You have one pending booking." {
		t.Fatalf("Respond() = %q", got)
	}
	if len(mock.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(mock.calls))
	}

	// The second call must see the tool round: the assistant turn that
	// requested the tool, immediately followed by its result.
	msgs := mock.calls[1].Messages
	var callIdx = -1
	for i, m := range msgs {
		if m.Role == "assistant" && len(m.ToolCalls) > 0 {
			callIdx = i
		}
	}
	if callIdx < 0 {
		t.Fatal("tool-call assistant message not sent on second invocation")
	}
	if callIdx+1 >= len(msgs) || msgs[callIdx+1].Role != "tool" {
		t.Fatal("tool result does not directly follow its tool call")
	}
	if msgs[callIdx+1].ToolCallID != "call-1" {
		t.Errorf("tool result ToolCallID = %q, want call-1", msgs[callIdx+1].ToolCallID)
	}
}

func TestRespond_FallbackAfterSoftErrors(t *testing.T) {
	// Every attempt yields a reply that admits an error, so the budget
	// runs out and the fixed fallback is returned.
	mock := &mockLLM{
		responses: []*llm.ChatResponse{
			assistantText("Error: I could not process that.", 50),
			assistantText("Please wait while I retry.", 60),
			assistantText("An ERROR occurred again.", 70),
		},
	}
	loop, threads, threadID := buildTestLoop(mock, "")

	got := loop.Respond(context.Background(), threadID, "book car 3")
	if got != FallbackReply {
		t.Fatalf("Respond() = %q, want %q", got, FallbackReply)
	}
	if len(mock.calls) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(mock.calls))
	}

	// Retries carry the transient retry instruction on the wire.
	for _, call := range mock.calls[1:] {
		last := call.Messages[len(call.Messages)-1]
		if last.Role != "user" || last.Content != retryInstruction {
			t.Errorf("retry invocation missing retry instruction, last = %+v", last)
		}
	}

	// Neither the failed replies nor the retry instruction persist.
	history, _ := threads.Snapshot(threadID)
	if len(history) != 1 || history[0].Kind != KindUser {
		t.Fatalf("stored history = %+v, want only the user message", history)
	}
}

func TestRespond_ModelFailureRetried(t *testing.T) {
	mock := &mockLLM{
		responses: []*llm.ChatResponse{
			nil, // transport failure
			assistantText("All set.", 90),
		},
	}
	loop, _, threadID := buildTestLoop(mock, "")

	got := loop.Respond(context.Background(), threadID, "hello")
	if got != "All set." {
		t.Fatalf("Respond() = %q, want recovery after failure", got)
	}
	if len(mock.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(mock.calls))
	}
}

func TestRespond_Termination_ToolCallsEveryAttempt(t *testing.T) {
	// A model that requests tools forever must still terminate within
	// the attempt budget, and the final unanswered tool request must
	// not be committed to history.
	mock := &mockLLM{
		responses: []*llm.ChatResponse{
			assistantToolCall("call-1", "lookup_reservation", map[string]any{}),
			assistantToolCall("call-2", "lookup_reservation", map[string]any{}),
			assistantToolCall("call-3", "lookup_reservation", map[string]any{}),
			assistantToolCall("call-4", "lookup_reservation", map[string]any{}),
		},
	}
	loop, threads, threadID := buildTestLoop(mock, "ok")

	got := loop.Respond(context.Background(), threadID, "keep digging")
	if got != FallbackReply {
		t.Fatalf("Respond() = %q, want %q", got, FallbackReply)
	}
	if len(mock.calls) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(mock.calls))
	}

	// Stored history: user, then two complete tool rounds. Every
	// assistant tool request is followed by its result.
	history, _ := threads.Snapshot(threadID)
	if len(history) != 5 {
		t.Fatalf("stored history length = %d, want 5", len(history))
	}
	for i, m := range history {
		if m.Kind == KindAssistant && len(m.ToolCalls) > 0 {
			if i+1 >= len(history) || history[i+1].Kind != KindTool {
				t.Fatalf("unpaired tool request at index %d", i)
			}
		}
	}
}

func TestRespond_ToolErrorSurfacedToModel(t *testing.T) {
	mock := &mockLLM{
		responses: []*llm.ChatResponse{
			assistantToolCall("call-1", "no_such_tool", map[string]any{}),
			assistantText("Sorry, I cannot do that.", 80),
		},
	}
	loop, _, threadID := buildTestLoop(mock, "")

	loop.Respond(context.Background(), threadID, "do the thing")

	// The second invocation sees the corrective error result.
	msgs := mock.calls[1].Messages
	found := false
	for _, m := range msgs {
		if m.Role == "tool" && strings.Contains(m.Content, "please fix your mistakes") {
			found = true
		}
	}
	if !found {
		t.Error("corrective tool error result not sent back to the model")
	}
}

func TestRespond_UnknownThread(t *testing.T) {
	mock := &mockLLM{}
	loop, _, _ := buildTestLoop(mock, "")

	got := loop.Respond(context.Background(), "no-such-thread", "hello")
	if got != FallbackReply {
		t.Fatalf("Respond() = %q, want fallback for unknown thread", got)
	}
	if len(mock.calls) != 0 {
		t.Fatalf("expected no model calls, got %d", len(mock.calls))
	}
}

func TestSoftError(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Error: something broke", true},
		{"An unexpected ERROR occurred", true},
		{"Please wait while I check", true},
		{"The waiter brought the bill", true},
		{"Your booking is confirmed.", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := softError(tt.text); got != tt.want {
			t.Errorf("softError(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
