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

// NewPRRiskCmd creates the pr-risk command.
func NewPRRiskCmd() *cobra.Command {
	var req investigator.PRRiskRequest

	cmd := &cobra.Command{
		Use:   "pr-risk",
		Short: "Analyze the merge risk of a pull request and print a markdown report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, _, err := newInvestigator(cmd)
			if err != nil {
				return err
			}
			md, err := inv.AnalyzePRRisk(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.RepoSlug, "repo", "", "Repository in owner/repo form (required)")
	cmd.Flags().IntVar(&req.PRNumber, "pr", 0, "Pull request number (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("repo"))
	cobra.CheckErr(cmd.MarkFlagRequired("pr"))

	return cmd
}
