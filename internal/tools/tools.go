// Package tools defines the tools available to the support assistant.
package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/llm"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// Tool represents a callable tool.
type Tool struct {
	Name        string                                                          `json:"name"`
	Description string                                                          `json:"description"`
	Parameters  map[string]any                                                  `json:"parameters"`
	Handler     func(ctx context.Context, args map[string]any) (string, error) `json:"-"`
}

// PolicyRetriever answers policy questions with relevant document
// sections.
type PolicyRetriever interface {
	Query(ctx context.Context, query string, k int) (string, error)
}

// Registry holds the assistant's tools.
type Registry struct {
	tools  map[string]*Tool
	store  *rental.Store
	policy PolicyRetriever
}

// NewRegistry creates the registry with all built-in tools. policy may
// be nil, in which case lookup_policy reports that policies are
// unavailable.
func NewRegistry(store *rental.Store, policy PolicyRetriever) *Registry {
	r := &Registry{
		tools:  make(map[string]*Tool),
		store:  store,
		policy: policy,
	}
	r.registerBookingTools()
	r.registerInfoTools()
	r.registerCalcTools()
	r.registerPolicyTools()
	return r
}

// Register adds a tool to the registry.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
}

// Get returns the named tool or nil.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Defs returns the tool definitions offered to the model, in stable
// name order.
func (r *Registry) Defs() []llm.ToolDef {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]llm.ToolDef, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return defs
}

// Execute runs the named tool with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool := r.tools[name]
	if tool == nil {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return tool.Handler(ctx, args)
}

type userIDKey struct{}

// WithUserID attaches the authenticated user's ID to the context, so
// user-scoped tools answer for the right customer.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom returns the user ID attached by WithUserID, or false.
func UserIDFrom(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey{}).(int)
	return id, ok
}

func requireUserID(ctx context.Context) (int, error) {
	id, ok := UserIDFrom(ctx)
	if !ok {
		return 0, fmt.Errorf("no authenticated user")
	}
	return id, nil
}

// intArg extracts a required integer argument. JSON numbers arrive as
// float64.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

func floatArg(args map[string]any, name string) (float64, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

func stringArg(args map[string]any, name string) (string, error) {
	s, _ := args[name].(string)
	if s == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}

// dateLayouts are accepted input formats for tool date arguments,
// tried in order. dd/mm/YYYY is canonical.
var dateLayouts = []string{
	rental.DateLayout,
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
}

// parseFlexibleDate parses a date argument leniently.
func parseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
