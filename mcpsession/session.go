/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package mcpsession maintains a session against a remote MCP server over
// streamable HTTP, authenticated with a bearer token, and exposes the
// server's tools as a toolcall.Map for the agent executor.
package mcpsession

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultGitHubURL is the hosted GitHub MCP server.
const DefaultGitHubURL = "https://api.githubcopilot.com/mcp/"

// Options tune the session.
type Options struct {
	// Timeout bounds each HTTP request to the server.
	Timeout time.Duration
	// ReadOnly asks the hosted server to expose only read-only tools.
	// Investigations never need write access.
	ReadOnly bool
	// Toolsets limits which tool groups the hosted server advertises
	// (e.g. "actions", "repos", "issues", "pull_requests").
	Toolsets []string
	// ClientName and ClientVersion identify this client during the
	// protocol handshake.
	ClientName    string
	ClientVersion string
}

func (o *Options) defaults() {
	if o.Timeout == 0 {
		o.Timeout = 15 * time.Second
	}
	if o.ClientName == "" {
		o.ClientName = "github-error-investigator"
	}
	if o.ClientVersion == "" {
		o.ClientVersion = "0.1.0"
	}
}

// Session is an initialized MCP session. It is safe for use by a single
// agent run at a time; Close releases the underlying transport.
type Session struct {
	client     *client.Client
	serverName string
	tools      []mcp.Tool // cached tools/list for the session lifetime
}

// Connect dials the MCP server, performs the protocol handshake, and caches
// the tool list. The bearer token is injected once, via the transport's
// header map; nothing else writes the Authorization header.
func Connect(ctx context.Context, url, token string, opts Options) (*Session, error) {
	if url == "" {
		return nil, errors.New("mcp server url cannot be empty")
	}
	if token == "" {
		return nil, errors.New("mcp bearer token cannot be empty")
	}
	opts.defaults()

	c, err := client.NewStreamableHttpClient(url,
		transport.WithHTTPHeaders(headers(token, opts)),
		transport.WithHTTPTimeout(opts.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mcp client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting mcp transport: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    opts.ClientName,
		Version: opts.ClientVersion,
	}
	initResult, err := c.Initialize(ctx, initReq)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("initializing mcp session: %w", err)
	}

	listResult, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("listing mcp tools: %w", err)
	}

	clog.FromContext(ctx).
		With("server", initResult.ServerInfo.Name).
		With("version", initResult.ServerInfo.Version).
		With("tools", len(listResult.Tools)).
		Info("Connected to MCP server")

	return &Session{
		client:     c,
		serverName: initResult.ServerInfo.Name,
		tools:      listResult.Tools,
	}, nil
}

// headers builds the HTTP headers for the hosted server. The Authorization
// header is set here and only here.
func headers(token string, opts Options) map[string]string {
	h := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if opts.ReadOnly {
		h["X-MCP-Readonly"] = "true"
	}
	if len(opts.Toolsets) > 0 {
		h["X-MCP-Toolsets"] = strings.Join(opts.Toolsets, ",")
	}
	return h
}

// ServerName returns the server's self-reported name.
func (s *Session) ServerName() string {
	return s.serverName
}

// CallTool invokes a remote tool and flattens its content to text.
// A tool-level failure (IsError) is returned as an error carrying the
// server's message.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("calling tool %q: %w", name, err)
	}

	text := flatten(result.Content)
	if result.IsError {
		return "", fmt.Errorf("tool %q failed: %s", name, text)
	}
	return text, nil
}

// Close shuts down the transport.
func (s *Session) Close() error {
	return s.client.Close()
}

// flatten joins the text parts of a tool result. Non-text content (images,
// resources) is noted but not expanded; the hosted GitHub server returns
// text for everything an investigation needs.
func flatten(contents []mcp.Content) string {
	var parts []string
	for _, c := range contents {
		switch v := c.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		default:
			parts = append(parts, fmt.Sprintf("(unsupported content type %T)", v))
		}
	}
	return strings.Join(parts, "\n")
}
