/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package investigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kknudson15/investigator/agents/promptbuilder"
)

// ErrInvalidRequest marks request-validation failures so callers can
// distinguish caller mistakes from operation failures.
var ErrInvalidRequest = errors.New("invalid request")

// ErrorInvestigationRequest asks for a root-cause analysis of a CI error.
type ErrorInvestigationRequest struct {
	ErrorMessage  string `json:"error_message"`
	RepoSlug      string `json:"repo_slug"` // "owner/repo"
	Branch        string `json:"branch"`
	WorkflowName  string `json:"workflow_name,omitempty"`
	GitHubRunID   *int64 `json:"github_run_id,omitempty"`
	FilePath      string `json:"file_path,omitempty"`
	CIURL         string `json:"ci_url,omitempty"`
	MaxRunsToCheck int   `json:"max_runs_to_check"`

	// seedRuns is filled by the workflow-run prefetch, not by callers.
	seedRuns []WorkflowRunSummary
}

func (r *ErrorInvestigationRequest) normalize() {
	if r.Branch == "" {
		r.Branch = "main"
	}
	if r.MaxRunsToCheck <= 0 {
		r.MaxRunsToCheck = 5
	}
}

func (r *ErrorInvestigationRequest) validate() error {
	if r.ErrorMessage == "" {
		return fmt.Errorf("%w: error_message is required", ErrInvalidRequest)
	}
	return validRepoSlug(r.RepoSlug)
}

// Bind implements promptbuilder.Bindable.
func (r *ErrorInvestigationRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("error_message", r.ErrorMessage)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindText("repo", r.RepoSlug); err != nil {
		return nil, err
	}
	if p, err = p.BindText("branch", r.Branch); err != nil {
		return nil, err
	}
	if p, err = p.BindText("github_run_id", orNone(formatRunID(r.GitHubRunID))); err != nil {
		return nil, err
	}
	if p, err = p.BindText("workflow_name", orNone(r.WorkflowName)); err != nil {
		return nil, err
	}
	if p, err = p.BindText("file_path", orNone(r.FilePath)); err != nil {
		return nil, err
	}
	if p, err = p.BindText("ci_url", orNone(r.CIURL)); err != nil {
		return nil, err
	}
	if p, err = p.BindInt("max_runs_to_check", r.MaxRunsToCheck); err != nil {
		return nil, err
	}
	if len(r.seedRuns) == 0 {
		return p.BindText("workflow_runs", "(none prefetched)")
	}
	return p.BindJSON("workflow_runs", r.seedRuns)
}

// RepoActivityRequest asks for a summary of recent repo activity.
type RepoActivityRequest struct {
	RepoSlug   string `json:"repo_slug"`
	Branch     string `json:"branch"`
	MaxCommits int    `json:"max_commits"`
	MaxPRs     int    `json:"max_prs"`
	MaxIssues  int    `json:"max_issues"`
}

func (r *RepoActivityRequest) normalize() {
	if r.Branch == "" {
		r.Branch = "main"
	}
	if r.MaxCommits <= 0 {
		r.MaxCommits = 10
	}
	if r.MaxPRs <= 0 {
		r.MaxPRs = 5
	}
	if r.MaxIssues <= 0 {
		r.MaxIssues = 5
	}
}

func (r *RepoActivityRequest) validate() error {
	return validRepoSlug(r.RepoSlug)
}

// Bind implements promptbuilder.Bindable.
func (r *RepoActivityRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("repo", r.RepoSlug)
	if err != nil {
		return nil, err
	}
	if p, err = p.BindText("branch", r.Branch); err != nil {
		return nil, err
	}
	if p, err = p.BindInt("max_commits", r.MaxCommits); err != nil {
		return nil, err
	}
	if p, err = p.BindInt("max_prs", r.MaxPRs); err != nil {
		return nil, err
	}
	return p.BindInt("max_issues", r.MaxIssues)
}

// DailyReportRequest asks for a combined daily report: repo activity plus
// an optional error investigation.
type DailyReportRequest struct {
	RepoSlug string `json:"repo_slug"`
	Branch   string `json:"branch"`

	// Optional error context; when ErrorMessage is set the report includes
	// an investigation section.
	ErrorMessage   string `json:"error_message,omitempty"`
	WorkflowName   string `json:"workflow_name,omitempty"`
	GitHubRunID    *int64 `json:"github_run_id,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
	CIURL          string `json:"ci_url,omitempty"`
	MaxRunsToCheck int    `json:"max_runs_to_check"`

	MaxCommits int `json:"max_commits"`
	MaxPRs     int `json:"max_prs"`
	MaxIssues  int `json:"max_issues"`
}

func (r *DailyReportRequest) normalize() {
	if r.Branch == "" {
		r.Branch = "main"
	}
	if r.MaxRunsToCheck <= 0 {
		r.MaxRunsToCheck = 3
	}
	if r.MaxCommits <= 0 {
		r.MaxCommits = 10
	}
	if r.MaxPRs <= 0 {
		r.MaxPRs = 5
	}
	if r.MaxIssues <= 0 {
		r.MaxIssues = 5
	}
}

func (r *DailyReportRequest) validate() error {
	return validRepoSlug(r.RepoSlug)
}

// PRRiskRequest asks for a merge-risk analysis of one pull request.
type PRRiskRequest struct {
	RepoSlug string `json:"repo_slug"`
	PRNumber int    `json:"pr_number"`
}

func (r *PRRiskRequest) validate() error {
	if r.PRNumber <= 0 {
		return fmt.Errorf("%w: pr_number must be positive, got %d", ErrInvalidRequest, r.PRNumber)
	}
	return validRepoSlug(r.RepoSlug)
}

// Bind implements promptbuilder.Bindable.
func (r *PRRiskRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("repo", r.RepoSlug)
	if err != nil {
		return nil, err
	}
	return p.BindInt("pr_number", r.PRNumber)
}

// validRepoSlug requires the "owner/repo" form.
func validRepoSlug(slug string) error {
	owner, repo, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return fmt.Errorf("%w: repo_slug must be \"owner/repo\", got %q", ErrInvalidRequest, slug)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func formatRunID(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}
