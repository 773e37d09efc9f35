/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the investigator.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investigator",
		Short: "GitHub CI-failure investigation agent",
		Long: `The investigator runs OpenAI agents against the hosted GitHub MCP server
to produce markdown reports: CI-failure root-cause analyses, repo activity
summaries, pull-request risk assessments, and combined daily reports.

Credentials come from the environment: OPENAI_API_KEY and GITHUB_MCP_PAT
are required. Tuning (model, turn budget, toolsets) can optionally be
loaded from a YAML file via --config; secrets are never read from files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to an optional YAML tuning file")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInvestigateCmd())
	cmd.AddCommand(NewActivityCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewPRRiskCmd())

	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
