/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadConfig(t *testing.T) {
	lookuper := envconfig.MapLookuper(map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"GITHUB_MCP_PAT": "ghp_test",
	})

	cfg, port, err := loadConfig(context.Background(), "", lookuper)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpenAIAPIKey != "sk-test" || cfg.GitHubPAT != "ghp_test" {
		t.Errorf("credentials not loaded: %+v", cfg)
	}
	if port != 8000 {
		t.Errorf("port = %d, want 8000", port)
	}
	if cfg.MaxTurns != 20 {
		t.Errorf("MaxTurns = %d, want 20", cfg.MaxTurns)
	}
}

func TestLoadConfigMissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"no openai key", map[string]string{"GITHUB_MCP_PAT": "ghp_x"}, "OPENAI_API_KEY"},
		{"no pat", map[string]string{"OPENAI_API_KEY": "sk-x"}, "GITHUB_MCP_PAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := loadConfig(context.Background(), "", envconfig.MapLookuper(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %v should name %s", err, tt.want)
			}
		})
	}
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`model: gpt-4.1
max_turns: 8
read_only: true
toolsets: [actions, repos]
timeout: 30s
temperatures:
  investigate: 0.1
`), 0o600); err != nil {
		t.Fatal(err)
	}

	lookuper := envconfig.MapLookuper(map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"GITHUB_MCP_PAT": "ghp_test",
		"MAX_TURNS":      "20",
	})
	cfg, _, err := loadConfig(context.Background(), path, lookuper)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Model != "gpt-4.1" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.MaxTurns != 8 {
		t.Errorf("MaxTurns = %d, want file value 8", cfg.MaxTurns)
	}
	if !cfg.ReadOnly {
		t.Error("ReadOnly not applied")
	}
	if len(cfg.Toolsets) != 2 || cfg.Toolsets[0] != "actions" {
		t.Errorf("Toolsets = %v", cfg.Toolsets)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Temperatures["investigate"] != 0.1 {
		t.Errorf("Temperatures = %v", cfg.Temperatures)
	}

	// Secrets still come from the environment only.
	if cfg.OpenAIAPIKey != "sk-test" || cfg.GitHubPAT != "ghp_test" {
		t.Errorf("credentials altered by file: %+v", cfg)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	lookuper := envconfig.MapLookuper(map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"GITHUB_MCP_PAT": "ghp_test",
	})

	if _, _, err := loadConfig(context.Background(), "/does/not/exist.yaml", lookuper); err == nil {
		t.Error("missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timeout: [not a duration"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(context.Background(), path, lookuper); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "investigate", "activity", "report", "pr-risk"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}
