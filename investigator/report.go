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

// assembleDailyReport stitches the agent outputs into one document. The
// agent sections are already markdown; they are embedded verbatim under
// their headers.
func assembleDailyReport(req DailyReportRequest, investigationMD, activityMD string) string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(fmt.Sprintf("Daily Report for `%s` (%s)", req.RepoSlug, req.Branch))
	md.PlainText("")
	md.PlainText("Generated by the GitHub error investigator and activity summary agent.")
	md.PlainText("")

	md.H2("Error investigation")
	md.PlainText("")
	if req.ErrorMessage != "" {
		md.PlainText("_Error message:_")
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightText, req.ErrorMessage)
		md.PlainText("")
		md.PlainText(orDefault(investigationMD, "No investigation details available."))
	} else {
		md.PlainText("No specific error was provided for this report.")
	}
	md.PlainText("")

	md.H2("Recent repo activity")
	md.PlainText("")
	md.PlainText(orDefault(activityMD, "No activity details available."))

	md.Build()
	return buf.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
