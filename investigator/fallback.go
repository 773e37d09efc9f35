/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package investigator

import (
	"bytes"
	"fmt"

	"github.com/nao1215/markdown"
)

// Fallback reports are returned when the agent burns through its turn
// budget without a final answer. That usually points at MCP
// misconfiguration (auth, connectivity, scopes), so the report tells the
// operator what to check instead of surfacing an opaque failure.

func investigationFallback(req ErrorInvestigationRequest) string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.PlainText("I attempted to investigate the error for:")
	md.PlainText("")
	md.BulletList(
		fmt.Sprintf("Repository: `%s`", req.RepoSlug),
		fmt.Sprintf("Branch: `%s`", req.Branch),
		fmt.Sprintf("Error: `%s`", req.ErrorMessage),
	)
	md.PlainText("")
	md.PlainText("but I hit my internal step limit (too many back-and-forth steps between")
	md.PlainText("the model and the GitHub MCP tools).")
	md.PlainText("")
	md.PlainText("This usually means the GitHub MCP server isn't responding as expected")
	md.PlainText("(e.g., auth, connectivity, or protocol issues), so I kept retrying")
	md.PlainText("and eventually stopped.")
	md.PlainText("")
	md.PlainText("Please double-check:")
	md.PlainText("")
	md.BulletList(
		"That the GitHub MCP server is reachable and correctly configured.",
		"That `GITHUB_MCP_PAT` has the right scopes for this repo.",
		"That the repo slug and branch are correct.",
	)
	md.PlainText("")
	md.PlainText("Once those are confirmed, try the request again.")

	md.Build()
	return buf.String()
}

func activityFallback(req RepoActivityRequest) string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.PlainText("I attempted to summarize recent activity for:")
	md.PlainText("")
	md.BulletList(
		fmt.Sprintf("Repository: `%s`", req.RepoSlug),
		fmt.Sprintf("Branch: `%s`", req.Branch),
	)
	md.PlainText("")
	md.PlainText("but I hit my internal step limit (too many back-and-forth steps")
	md.PlainText("between the model and the GitHub MCP tools).")
	md.PlainText("")
	md.PlainText("Please verify:")
	md.PlainText("")
	md.BulletList(
		"The GitHub MCP server / remote endpoint is reachable.",
		"`GITHUB_MCP_PAT` has the right scopes for this repo.",
		"The repo slug and branch are correct.",
	)
	md.PlainText("")
	md.PlainText("Once those are confirmed, try again.")

	md.Build()
	return buf.String()
}

func prRiskFallback(req PRRiskRequest) string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.PlainText("I attempted to analyze the risk of:")
	md.PlainText("")
	md.BulletList(
		fmt.Sprintf("Repository: `%s`", req.RepoSlug),
		fmt.Sprintf("Pull request: `#%d`", req.PRNumber),
	)
	md.PlainText("")
	md.PlainText("but I hit my internal step limit (too many back-and-forth steps")
	md.PlainText("between the model and the GitHub MCP tools).")
	md.PlainText("")
	md.PlainText("Please verify:")
	md.PlainText("")
	md.BulletList(
		"The GitHub MCP server / remote endpoint is reachable.",
		"`GITHUB_MCP_PAT` has the right scopes for this repo.",
		"The repo slug and PR number are correct.",
	)
	md.PlainText("")
	md.PlainText("Once those are confirmed, try again.")

	md.Build()
	return buf.String()
}
