/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the provider-independent shape of a tool: its
// schema as advertised to the model, and the handler that serves calls.
// The MCP session materializes tools in this shape; the executor turns the
// definitions into provider tool declarations and routes calls back to the
// handlers.
package toolcall

import (
	"context"
	"fmt"
)

// Call is a single tool invocation requested by the model.
type Call struct {
	ID   string
	Name string
	Args map[string]any
}

// Definition describes a tool to the model. Schema is the tool's JSON
// schema for arguments, kept as a raw map because it arrives ready-made
// from the MCP server's tools/list.
type Definition struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Handler serves one tool call. The returned map is serialized back to the
// model verbatim; errors are reported in-band under the "error" key so the
// model can react to them.
type Handler func(ctx context.Context, call Call) map[string]any

// Tool pairs a definition with its handler.
type Tool struct {
	Def     Definition
	Handler Handler
}

// Map is the tool set handed to an executor, keyed by tool name.
type Map map[string]Tool

// Error builds an in-band error payload for a tool result.
func Error(format string, args ...any) map[string]any {
	return map[string]any{
		"error": fmt.Sprintf(format, args...),
	}
}

// Text builds a plain-text tool result payload.
func Text(content string) map[string]any {
	return map[string]any{
		"content": content,
	}
}
