/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package investigator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// WorkflowRunSummary is the slice of a workflow run that seeds the
// investigation prompt.
type WorkflowRunSummary struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Workflow   string    `json:"workflow,omitempty"`
	Branch     string    `json:"branch"`
	HeadSHA    string    `json:"head_sha"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion,omitempty"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

// RunLister fetches recent workflow runs for a repo/branch. The GitHub
// REST implementation is the default; tests substitute their own.
type RunLister interface {
	ListRecentRuns(ctx context.Context, repoSlug, branch string, limit int) ([]WorkflowRunSummary, error)
}

// githubRunLister lists workflow runs via the GitHub REST API, using the
// same PAT the MCP session authenticates with.
type githubRunLister struct {
	client *github.Client
}

// NewGitHubRunLister builds a RunLister authenticated with the given token.
func NewGitHubRunLister(ctx context.Context, token string) RunLister {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &githubRunLister{
		client: github.NewClient(oauth2.NewClient(ctx, ts)),
	}
}

// ListRecentRuns implements RunLister.
func (l *githubRunLister) ListRecentRuns(ctx context.Context, repoSlug, branch string, limit int) ([]WorkflowRunSummary, error) {
	owner, repo, ok := strings.Cut(repoSlug, "/")
	if !ok {
		return nil, fmt.Errorf("repo_slug must be \"owner/repo\", got %q", repoSlug)
	}
	if limit <= 0 {
		limit = 5
	}

	runs, _, err := l.client.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, &github.ListWorkflowRunsOptions{
		Branch:      branch,
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("listing workflow runs for %s: %w", repoSlug, err)
	}

	summaries := make([]WorkflowRunSummary, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		summaries = append(summaries, WorkflowRunSummary{
			ID:         run.GetID(),
			Name:       run.GetDisplayTitle(),
			Workflow:   run.GetName(),
			Branch:     run.GetHeadBranch(),
			HeadSHA:    run.GetHeadSHA(),
			Status:     run.GetStatus(),
			Conclusion: run.GetConclusion(),
			URL:        run.GetHTMLURL(),
			CreatedAt:  run.GetCreatedAt().Time,
		})
	}
	return summaries, nil
}
