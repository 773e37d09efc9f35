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

// NewInvestigateCmd creates the investigate command.
func NewInvestigateCmd() *cobra.Command {
	var req investigator.ErrorInvestigationRequest
	var runID int64

	cmd := &cobra.Command{
		Use:   "investigate",
		Short: "Investigate a CI / pipeline error and print a markdown report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, _, err := newInvestigator(cmd)
			if err != nil {
				return err
			}
			if runID > 0 {
				req.GitHubRunID = &runID
			}
			md, err := inv.Investigate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ErrorMessage, "error-message", "", "The CI error message to investigate (required)")
	cmd.Flags().StringVar(&req.RepoSlug, "repo", "", "Repository in owner/repo form (required)")
	cmd.Flags().StringVar(&req.Branch, "branch", "", "Branch to investigate (default main)")
	cmd.Flags().StringVar(&req.WorkflowName, "workflow", "", "Workflow name, if known")
	cmd.Flags().Int64Var(&runID, "run-id", 0, "GitHub Actions run ID, if known")
	cmd.Flags().StringVar(&req.FilePath, "file", "", "Suspected file path, if known")
	cmd.Flags().StringVar(&req.CIURL, "ci-url", "", "CI URL, if known")
	cmd.Flags().IntVar(&req.MaxRunsToCheck, "max-runs", 0, "Max workflow runs to check (default 5)")
	cobra.CheckErr(cmd.MarkFlagRequired("error-message"))
	cobra.CheckErr(cmd.MarkFlagRequired("repo"))

	return cmd
}
