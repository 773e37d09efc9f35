/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// RunContext carries operation-level metadata for an agent run. It enriches
// metrics and spans with bounded labels (operation names and repositories,
// not run IDs).
type RunContext struct {
	Operation string `json:"operation,omitempty"` // "investigate", "activity", "daily_report", "pr_risk"
	Repo      string `json:"repo,omitempty"`      // "owner/repo"
	Branch    string `json:"branch,omitempty"`
}

// EnrichAttributes appends the run context to the given base attributes.
func (r RunContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+3)
	copy(attrs, baseAttrs)
	if r.Operation != "" {
		attrs = append(attrs, attribute.String("operation", r.Operation))
	}
	if r.Repo != "" {
		attrs = append(attrs, attribute.String("repository", r.Repo))
	}
	if r.Branch != "" {
		attrs = append(attrs, attribute.String("branch", r.Branch))
	}
	return attrs
}

type contextKey struct{}

// WithRunContext attaches a RunContext to the Go context.
func WithRunContext(ctx context.Context, rc RunContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// GetRunContext retrieves the RunContext, or a zero value if absent.
func GetRunContext(ctx context.Context) RunContext {
	if rc, ok := ctx.Value(contextKey{}).(RunContext); ok {
		return rc
	}
	return RunContext{}
}
