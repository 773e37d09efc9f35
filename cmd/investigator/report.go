/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kknudson15/investigator/investigator"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var req investigator.DailyReportRequest
	var runID int64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a daily report: activity plus an optional error investigation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, _, err := newInvestigator(cmd)
			if err != nil {
				return err
			}
			if runID > 0 {
				req.GitHubRunID = &runID
			}
			md, err := inv.GenerateDailyReport(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.RepoSlug, "repo", "", "Repository in owner/repo form (required)")
	cmd.Flags().StringVar(&req.Branch, "branch", "", "Branch to report on (default main)")
	cmd.Flags().StringVar(&req.ErrorMessage, "error-message", "", "Optional CI error to investigate in the report")
	cmd.Flags().StringVar(&req.WorkflowName, "workflow", "", "Workflow name, if known")
	cmd.Flags().Int64Var(&runID, "run-id", 0, "GitHub Actions run ID, if known")
	cmd.Flags().StringVar(&req.FilePath, "file", "", "Suspected file path, if known")
	cmd.Flags().StringVar(&req.CIURL, "ci-url", "", "CI URL, if known")
	cmd.Flags().IntVar(&req.MaxRunsToCheck, "max-runs", 0, "Max workflow runs to check (default 3)")
	cmd.Flags().IntVar(&req.MaxCommits, "max-commits", 0, "Max commits to review (default 10)")
	cmd.Flags().IntVar(&req.MaxPRs, "max-prs", 0, "Max pull requests to review (default 5)")
	cmd.Flags().IntVar(&req.MaxIssues, "max-issues", 0, "Max issues to review (default 5)")
	cobra.CheckErr(cmd.MarkFlagRequired("repo"))

	return cmd
}
