/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package mcpsession

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kknudson15/investigator/agents/toolcall"
)

// Tools exposes the session's cached tool list as a toolcall.Map whose
// handlers dispatch to the remote server. Remote failures are reported
// in-band so the model can adjust instead of aborting the run.
func (s *Session) Tools() toolcall.Map {
	tools := make(toolcall.Map, len(s.tools))
	for _, t := range s.tools {
		tools[t.Name] = toolcall.Tool{
			Def: toolcall.Definition{
				Name:        t.Name,
				Description: t.Description,
				Schema:      schemaMap(t.InputSchema),
			},
			Handler: s.handler(t.Name),
		}
	}
	return tools
}

func (s *Session) handler(name string) toolcall.Handler {
	return func(ctx context.Context, call toolcall.Call) map[string]any {
		text, err := s.CallTool(ctx, name, call.Args)
		if err != nil {
			return toolcall.Error("%v", err)
		}
		return toolcall.Text(text)
	}
}

// schemaMap converts an MCP input schema to the raw map form the executor
// forwards to the model. Round-tripping through JSON keeps us independent
// of the mcp-go struct layout.
func schemaMap(schema mcp.ToolInputSchema) map[string]any {
	b, err := json.Marshal(schema)
	if err != nil {
		return emptySchema()
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return emptySchema()
	}
	if v, ok := m["type"].(string); !ok || v == "" {
		m["type"] = "object"
	}
	if v, ok := m["properties"].(map[string]any); !ok || v == nil {
		m["properties"] = map[string]any{}
	}
	return m
}

// emptySchema is the minimal valid schema for a tool with no arguments.
func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
