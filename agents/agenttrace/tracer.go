/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer creates traces and receives them once complete.
type Tracer interface {
	// NewTrace starts a trace for the given prompt.
	NewTrace(ctx context.Context, prompt string) *Trace
	// RecordTrace is called by Trace.Complete with the finished trace.
	RecordTrace(trace *Trace)
}

// ByCode returns a Tracer that invokes the given callbacks, in order, with
// each completed trace. Nil callbacks are skipped.
func ByCode(callbacks ...func(*Trace)) Tracer {
	return &byCodeTracer{callbacks: callbacks}
}

type byCodeTracer struct {
	callbacks []func(*Trace)
}

func (t *byCodeTracer) NewTrace(ctx context.Context, prompt string) *Trace {
	return newTrace(ctx, t, prompt)
}

func (t *byCodeTracer) RecordTrace(trace *Trace) {
	for _, cb := range t.callbacks {
		if cb != nil {
			cb(trace)
		}
	}
}

// StartTrace starts a trace using the tracer attached to the context, or a
// default logging tracer if none is attached.
func StartTrace(ctx context.Context, prompt string) *Trace {
	return tracerFromContext(ctx).NewTrace(ctx, prompt)
}

// NewDefaultTracer returns a tracer that logs completed traces via clog.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(trace *Trace) {
		logger.With(
			"trace_id", trace.ID,
			"duration_ms", trace.Duration().Milliseconds(),
			"tool_calls", len(trace.ToolCalls),
		).Info("Agent trace completed", "trace", trace.String())
	})
}

type tracerKey struct{}

// WithTracer attaches a tracer to the context for StartTrace to find.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

func tracerFromContext(ctx context.Context) Tracer {
	if tr, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return tr
	}
	return NewDefaultTracer(ctx)
}
