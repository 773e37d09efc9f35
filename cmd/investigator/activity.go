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

// NewActivityCmd creates the activity command.
func NewActivityCmd() *cobra.Command {
	var req investigator.RepoActivityRequest

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Summarize recent repo activity and print a markdown report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, _, err := newInvestigator(cmd)
			if err != nil {
				return err
			}
			md, err := inv.SummarizeActivity(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.RepoSlug, "repo", "", "Repository in owner/repo form (required)")
	cmd.Flags().StringVar(&req.Branch, "branch", "", "Branch to summarize (default main)")
	cmd.Flags().IntVar(&req.MaxCommits, "max-commits", 0, "Max commits to review (default 10)")
	cmd.Flags().IntVar(&req.MaxPRs, "max-prs", 0, "Max pull requests to review (default 5)")
	cmd.Flags().IntVar(&req.MaxIssues, "max-issues", 0, "Max issues to review (default 5)")
	cobra.CheckErr(cmd.MarkFlagRequired("repo"))

	return cmd
}
