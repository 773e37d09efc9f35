/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "investigator.agents.agenttrace"

// ToolCall records a single tool invocation within a trace.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Args      map[string]any `json:"args"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace
	mu    sync.Mutex
	span  oteltrace.Span
}

// Trace records a complete agent run from prompt to markdown answer.
type Trace struct {
	ID          string      `json:"id"`
	InputPrompt string      `json:"input_prompt"`
	RunContext  RunContext  `json:"run_context,omitempty"`
	ToolCalls   []*ToolCall `json:"tool_calls"`
	Result      string      `json:"result"`
	Error       error       `json:"error,omitempty"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`

	tracer Tracer
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
}

func newTrace(ctx context.Context, tracer Tracer, prompt string) *Trace {
	rc := GetRunContext(ctx)

	tr := otel.Tracer(tracerName)
	attrs := rc.EnrichAttributes([]attribute.KeyValue{
		attribute.Int("prompt_length", len(prompt)),
	})
	ctx, span := tr.Start(ctx, "agent.run", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:          newTraceID(),
		InputPrompt: prompt,
		RunContext:  rc,
		StartTime:   time.Now(),
		tracer:      tracer,
		ctx:         ctx,
		span:        span,
	}
}

// StartToolCall opens a tool call record; call Complete on the result.
func (t *Trace) StartToolCall(id, name string, args map[string]any) *ToolCall {
	tr := otel.Tracer(tracerName)
	_, span := tr.Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))

	return &ToolCall{
		ID:        id,
		Name:      name,
		Args:      args,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a tool call that never ran: unknown tool or bad args.
func (t *Trace) BadToolCall(id, name string, args map[string]any, err error) {
	tr := otel.Tracer(tracerName)
	_, span := tr.Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))
	span.SetStatus(codes.Error, err.Error())
	span.End()

	now := time.Now()
	tc := &ToolCall{
		ID:        id,
		Name:      name,
		Args:      args,
		StartTime: now,
		EndTime:   now,
		Error:     err,
		trace:     t,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ToolCalls = append(t.ToolCalls, tc)
}

// RecordTokenUsage stamps model and token counts onto the run span.
func (t *Trace) RecordTokenUsage(model string, promptTokens, completionTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.span != nil {
		t.span.SetAttributes(
			attribute.String("model", model),
			attribute.Int64("tokens.prompt", promptTokens),
			attribute.Int64("tokens.completion", completionTokens),
		)
	}
}

// Complete closes the tool call and appends it to the parent trace.
func (tc *ToolCall) Complete(result any, err error) {
	tc.mu.Lock()
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	trace, span := tc.trace, tc.span
	tc.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	trace.mu.Lock()
	defer trace.mu.Unlock()
	trace.ToolCalls = append(trace.ToolCalls, tc)
}

// Complete closes the trace with the final answer and hands it to the tracer.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	tracer, span := t.tracer, t.span
	t.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	tracer.RecordTrace(t)
}

// Duration returns how long the run has taken so far, or took in total.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// String renders a human-readable summary for logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	if t.RunContext.Operation != "" {
		fmt.Fprintf(&sb, "Operation: %s (%s@%s)\n", t.RunContext.Operation, t.RunContext.Repo, t.RunContext.Branch)
	}
	fmt.Fprintf(&sb, "Prompt length: %d\n", len(t.InputPrompt))

	if len(t.ToolCalls) > 0 {
		fmt.Fprintf(&sb, "Tool calls (%d):\n", len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			fmt.Fprintf(&sb, "  [%d] %s", i+1, tc.Name)
			if tc.Error != nil {
				fmt.Fprintf(&sb, " error=%v", tc.Error)
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No tool calls\n")
	}

	switch {
	case t.Error != nil:
		fmt.Fprintf(&sb, "Error: %v\n", t.Error)
	default:
		fmt.Fprintf(&sb, "Result: %d bytes of markdown\n", len(t.Result))
	}
	return sb.String()
}

func newTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
