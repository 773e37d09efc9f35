/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main provides the entry point for the investigator CLI.
//
// The investigator connects an OpenAI agent to the hosted GitHub MCP
// server to investigate CI failures, summarize repo activity, analyze
// pull-request risk, and assemble daily reports.
//
// Usage:
//
//	investigator serve
//	investigator investigate --repo owner/repo --error-message "..."
//
// See --help for all available options.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	Execute(ctx)
}
