// Package agent implements the tool-calling loop that turns user questions
// about Duke University into Duke API calls and a final natural-language
// answer. The model first resolves free-form names to the exact formats the
// APIs require, then fetches, then responds.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// Handler executes one tool call. args is the decoded JSON arguments object
// from the model. The returned string goes back to the model verbatim.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Tool is one function the model may call.
type Tool struct {
	Name        string
	Description string
	// Parameters maps argument names to their JSON Schema, e.g.
	// {"query": {"type": "string", "description": "..."}}
	Parameters map[string]any
	Required   []string
	Handler    Handler
}

// openAITool renders the tool as an OpenAI function declaration.
func (t *Tool) openAITool() openai.ChatCompletionToolUnionParam {
	required := t.Required
	if required == nil {
		required = []string{}
	}
	properties := t.Parameters
	if properties == nil {
		properties = map[string]any{}
	}

	return openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        t.Name,
		Description: openai.String(t.Description),
		Parameters: openai.FunctionParameters{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	})
}

// decodeArgs parses a tool call's JSON argument payload. An empty payload
// decodes to an empty map so handlers can rely on defaults.
func decodeArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// Argument extraction helpers. Models are loose with types, so numbers
// arrive as float64 and booleans occasionally as strings.

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		if v == "true" {
			return true
		}
		if v == "false" {
			return false
		}
	}
	return fallback
}

func stringSliceArg(args map[string]any, key string, fallback []string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		// A bare string stands in for a single-element list
		if s, ok := args[key].(string); ok && s != "" {
			return []string{s}
		}
		return fallback
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
