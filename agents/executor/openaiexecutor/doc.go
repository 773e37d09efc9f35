/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor runs agent conversations against the OpenAI chat
// completions API with tool calling.
//
// The executor binds a request into a prompt template, declares the tool
// set to the model, and loops: every tool call the model makes is routed to
// its handler and the result fed back, until the model produces a final
// text answer or the turn budget runs out. Transient API errors are retried
// with exponential backoff.
package openaiexecutor
