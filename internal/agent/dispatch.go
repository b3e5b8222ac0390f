package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/llm"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/tools"
)

// Dispatcher executes the tool calls requested by an assistant turn.
type Dispatcher struct {
	registry *tools.Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tools.Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch invokes each requested tool in request order and returns
// one tool result message per request, in the same order. Failures of
// any kind (unknown tool, bad arguments, execution errors, panics) are
// converted into error-typed results carrying a corrective
// instruction; Dispatch itself never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []llm.ToolCall) []Message {
	results := make([]Message, 0, len(calls))
	for _, call := range calls {
		output, err := d.execute(ctx, call)
		if err != nil {
			d.logger.Warn("tool call failed",
				"tool", call.Function.Name,
				"error", err,
			)
			results = append(results, Message{
				Kind:       KindTool,
				ToolCallID: call.ID,
				Content:    fmt.Sprintf("Error: %v\n please fix your mistakes.", err),
				IsError:    true,
			})
			continue
		}
		d.logger.Debug("tool call succeeded",
			"tool", call.Function.Name,
			"resultBytes", len(output),
		)
		results = append(results, Message{
			Kind:       KindTool,
			ToolCallID: call.ID,
			Content:    output,
		})
	}
	return results
}

func (d *Dispatcher) execute(ctx context.Context, call llm.ToolCall) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", call.Function.Name, r)
		}
	}()
	return d.registry.Execute(ctx, call.Function.Name, call.Function.Arguments)
}
