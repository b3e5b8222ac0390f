package tools

import (
	"context"
	"fmt"
)

// policyTopK is how many policy sections a lookup returns.
const policyTopK = 2

func (r *Registry) registerPolicyTools() {
	r.Register(&Tool{
		Name: "lookup_policy",
		Description: "Consult the company policies to check whether certain options are permitted. " +
			"Use this before making any booking changes or performing other 'write' events.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The policy question to look up.",
				},
			},
			"required": []string{"query"},
		},
		Handler: r.handleLookupPolicy,
	})
}

func (r *Registry) handleLookupPolicy(ctx context.Context, args map[string]any) (string, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return "", err
	}
	if r.policy == nil {
		return "", fmt.Errorf("policy lookup is not configured")
	}
	return r.policy.Query(ctx, query, policyTopK)
}
