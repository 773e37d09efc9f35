/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package agenttrace records agent executions: the input prompt, every tool
// call with its arguments and result, and the final markdown answer.
//
// Traces are mirrored to OpenTelemetry spans so a run can be inspected in a
// trace viewer, and a Tracer receives each completed trace for logging or
// collection in tests.
package agenttrace
