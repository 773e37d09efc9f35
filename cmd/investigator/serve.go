/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kknudson15/investigator/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the investigator HTTP API",
		Long: `Serve the JSON API: POST /investigate, /activity, /daily_report, and
/pr_risk, plus GET /healthz. The port comes from PORT (default 8000).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, port, err := newInvestigator(cmd)
			if err != nil {
				return err
			}
			return server.New(inv).ListenAndServe(cmd.Context(), fmt.Sprintf(":%d", port))
		},
	}
}
