/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package investigator orchestrates the agent operations: error
// investigation, repo-activity summaries, PR risk analysis, and the
// combined daily report. Each operation connects an OpenAI agent to the
// hosted GitHub MCP server and returns a markdown document.
package investigator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/kknudson15/investigator/agents/agenttrace"
	"github.com/kknudson15/investigator/agents/executor/openaiexecutor"
	"github.com/kknudson15/investigator/agents/promptbuilder"
	"github.com/kknudson15/investigator/agents/toolcall"
	"github.com/kknudson15/investigator/mcpsession"
)

// Config carries the credentials and tuning for all operations.
type Config struct {
	// OpenAIAPIKey authenticates the model calls. Required.
	OpenAIAPIKey string
	// GitHubPAT authenticates against the GitHub MCP server and the REST
	// prefetch. Required.
	GitHubPAT string
	// MCPServerURL defaults to the hosted GitHub MCP server.
	MCPServerURL string
	// Model defaults to gpt-4.1-mini.
	Model string
	// MaxTurns bounds each agent conversation. Defaults to 20.
	MaxTurns int
	// Temperatures overrides the per-operation sampling temperature, keyed
	// by operation name ("investigate", "activity", "pr_risk").
	Temperatures map[string]float64
	// ReadOnly restricts the MCP session to read-only tools.
	ReadOnly bool
	// Toolsets restricts which tool groups the MCP server advertises.
	Toolsets []string
	// Timeout bounds each MCP request. Defaults to 15s.
	Timeout time.Duration
}

func (c *Config) defaults() {
	if c.MCPServerURL == "" {
		c.MCPServerURL = mcpsession.DefaultGitHubURL
	}
	if c.Model == "" {
		c.Model = openai.ChatModelGPT4_1Mini
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = 20
	}
}

// Validate reports missing credentials by name, so startup failures tell
// the operator exactly which variable to set.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is not set: export an OpenAI API key before starting")
	}
	if c.GitHubPAT == "" {
		return errors.New("GITHUB_MCP_PAT is not set: create a GitHub PAT with appropriate scopes and export it")
	}
	return nil
}

// toolSource is the slice of mcpsession.Session the runner needs.
type toolSource interface {
	Tools() toolcall.Map
	Close() error
}

// operation pairs the prompts and sampling temperature of one agent task.
type operation struct {
	name         string
	instructions *promptbuilder.Prompt
	template     *promptbuilder.Prompt
	temperature  float64
}

var (
	investigateOp = operation{"investigate", investigateInstructions, investigatePrompt, 0.2}
	activityOp    = operation{"activity", activityInstructions, activityPrompt, 0.3}
	prRiskOp      = operation{"pr_risk", prRiskInstructions, prRiskPrompt, 0.25}
)

// Investigator runs the agent operations.
type Investigator struct {
	cfg    Config
	client openai.Client

	// dial and agentRun are swappable for tests.
	dial     func(ctx context.Context) (toolSource, error)
	agentRun func(ctx context.Context, op operation, req promptbuilder.Bindable) (string, error)
	runs     RunLister
}

// Option customizes an Investigator.
type Option func(*Investigator)

// WithRunLister replaces the workflow-run prefetcher. Passing nil disables
// prefetching entirely.
func WithRunLister(l RunLister) Option {
	return func(inv *Investigator) { inv.runs = l }
}

// New validates the configuration and builds an Investigator.
func New(ctx context.Context, cfg Config, opts ...Option) (*Investigator, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inv := &Investigator{
		cfg:    cfg,
		client: openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		runs:   NewGitHubRunLister(ctx, cfg.GitHubPAT),
	}
	inv.dial = func(ctx context.Context) (toolSource, error) {
		return mcpsession.Connect(ctx, cfg.MCPServerURL, cfg.GitHubPAT, mcpsession.Options{
			Timeout:  cfg.Timeout,
			ReadOnly: cfg.ReadOnly,
			Toolsets: cfg.Toolsets,
		})
	}
	inv.agentRun = inv.execute

	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// execute is the real agent runner: one MCP session per run.
func (inv *Investigator) execute(ctx context.Context, op operation, req promptbuilder.Bindable) (string, error) {
	session, err := inv.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("connecting to GitHub MCP server: %w", err)
	}
	defer session.Close()

	temperature := op.temperature
	if t, ok := inv.cfg.Temperatures[op.name]; ok {
		temperature = t
	}

	exec, err := openaiexecutor.New[promptbuilder.Bindable](inv.client, op.template,
		openaiexecutor.WithModel[promptbuilder.Bindable](inv.cfg.Model),
		openaiexecutor.WithTemperature[promptbuilder.Bindable](temperature),
		openaiexecutor.WithMaxTurns[promptbuilder.Bindable](inv.cfg.MaxTurns),
		openaiexecutor.WithSystemInstructions[promptbuilder.Bindable](op.instructions),
	)
	if err != nil {
		return "", fmt.Errorf("creating %s executor: %w", op.name, err)
	}
	return exec.Execute(ctx, req, session.Tools())
}

// Investigate runs the error-investigation agent and returns markdown.
// Turn-budget exhaustion yields a fallback report instead of an error.
func (inv *Investigator) Investigate(ctx context.Context, req ErrorInvestigationRequest) (string, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return "", err
	}
	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{
		Operation: investigateOp.name, Repo: req.RepoSlug, Branch: req.Branch,
	})

	if inv.runs != nil {
		runs, err := inv.runs.ListRecentRuns(ctx, req.RepoSlug, req.Branch, req.MaxRunsToCheck)
		if err != nil {
			// Prefetch is best-effort; the agent can list runs itself.
			clog.FromContext(ctx).With("error", err).Warn("Workflow-run prefetch failed")
		} else {
			req.seedRuns = runs
		}
	}

	md, err := inv.agentRun(ctx, investigateOp, &req)
	switch {
	case errors.Is(err, openaiexecutor.ErrMaxTurnsExceeded):
		return investigationFallback(req), nil
	case err != nil:
		return "", fmt.Errorf("investigating error for %s: %w", req.RepoSlug, err)
	}
	return md, nil
}

// SummarizeActivity runs the repo-activity agent and returns markdown.
func (inv *Investigator) SummarizeActivity(ctx context.Context, req RepoActivityRequest) (string, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return "", err
	}
	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{
		Operation: activityOp.name, Repo: req.RepoSlug, Branch: req.Branch,
	})

	md, err := inv.agentRun(ctx, activityOp, &req)
	switch {
	case errors.Is(err, openaiexecutor.ErrMaxTurnsExceeded):
		return activityFallback(req), nil
	case err != nil:
		return "", fmt.Errorf("summarizing activity for %s: %w", req.RepoSlug, err)
	}
	return md, nil
}

// AnalyzePRRisk runs the PR risk agent and returns markdown.
func (inv *Investigator) AnalyzePRRisk(ctx context.Context, req PRRiskRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	ctx = agenttrace.WithRunContext(ctx, agenttrace.RunContext{
		Operation: prRiskOp.name, Repo: req.RepoSlug,
	})

	md, err := inv.agentRun(ctx, prRiskOp, &req)
	switch {
	case errors.Is(err, openaiexecutor.ErrMaxTurnsExceeded):
		return prRiskFallback(req), nil
	case err != nil:
		return "", fmt.Errorf("analyzing PR risk for %s#%d: %w", req.RepoSlug, req.PRNumber, err)
	}
	return md, nil
}

// GenerateDailyReport combines the activity summary with an optional error
// investigation into a single markdown document.
func (inv *Investigator) GenerateDailyReport(ctx context.Context, req DailyReportRequest) (string, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return "", err
	}

	activityMD, err := inv.SummarizeActivity(ctx, RepoActivityRequest{
		RepoSlug:   req.RepoSlug,
		Branch:     req.Branch,
		MaxCommits: req.MaxCommits,
		MaxPRs:     req.MaxPRs,
		MaxIssues:  req.MaxIssues,
	})
	if err != nil {
		return "", err
	}

	var investigationMD string
	if req.ErrorMessage != "" {
		investigationMD, err = inv.Investigate(ctx, ErrorInvestigationRequest{
			ErrorMessage:   req.ErrorMessage,
			RepoSlug:       req.RepoSlug,
			Branch:         req.Branch,
			WorkflowName:   req.WorkflowName,
			GitHubRunID:    req.GitHubRunID,
			FilePath:       req.FilePath,
			CIURL:          req.CIURL,
			MaxRunsToCheck: req.MaxRunsToCheck,
		})
		if err != nil {
			return "", err
		}
	}

	return assembleDailyReport(req, investigationMD, activityMD), nil
}
