/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry counters for agent runs: token
// usage and tool calls, labeled by model and operation.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kknudson15/investigator/agents/agenttrace"
)

// GenAI records token and tool-call counters for agent executions.
// Counter creation degrades to no-ops rather than failing the run.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
}

// NewGenAI creates counters under the given meter name. The meter name is
// shared across executors; the model shows up as a metric attribute.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName)

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, metric disabled", "counter", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		toolCalls:        counter("genai.tool.calls", "The number of tool calls made during execution", "{calls}"),
	}
}

// RecordTokens records prompt and completion token usage for a model,
// enriched with the run context from ctx.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64) {
	attrs := agenttrace.GetRunContext(ctx).EnrichAttributes([]attribute.KeyValue{
		attribute.String("model", model),
	})
	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(attrs...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(attrs...))
}

// RecordToolCall records one tool invocation.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string) {
	attrs := agenttrace.GetRunContext(ctx).EnrichAttributes([]attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	})
	m.toolCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
}
