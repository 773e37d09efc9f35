/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kknudson15/investigator/investigator"
)

// envConfig is the environment surface of the CLI. Secrets come only from
// here, never from the tuning file.
type envConfig struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY,required"`
	GitHubPAT    string `env:"GITHUB_MCP_PAT,required"`
	MCPServerURL string `env:"GITHUB_MCP_URL"`
	Model        string `env:"OPENAI_MODEL"`
	Port         int    `env:"PORT,default=8000"`
	MaxTurns     int    `env:"MAX_TURNS,default=20"`
}

// fileConfig is the optional YAML tuning overlay. It intentionally has no
// credential fields.
type fileConfig struct {
	Model    string   `yaml:"model"`
	MaxTurns int      `yaml:"max_turns"`
	ReadOnly bool     `yaml:"read_only"`
	Toolsets []string `yaml:"toolsets"`
	// Temperatures is keyed by operation name: investigate, activity, pr_risk.
	Temperatures map[string]float64 `yaml:"temperatures"`
	// Timeout is a Go duration string, e.g. "15s".
	Timeout string `yaml:"timeout"`
}

// loadConfig assembles the investigator configuration from the environment
// plus the optional YAML overlay, and returns it with the serve port.
func loadConfig(ctx context.Context, path string, lookuper envconfig.Lookuper) (investigator.Config, int, error) {
	var env envConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &env, Lookuper: lookuper}); err != nil {
		return investigator.Config{}, 0, fmt.Errorf("processing environment: %w", err)
	}

	cfg := investigator.Config{
		OpenAIAPIKey: env.OpenAIAPIKey,
		GitHubPAT:    env.GitHubPAT,
		MCPServerURL: env.MCPServerURL,
		Model:        env.Model,
		MaxTurns:     env.MaxTurns,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return investigator.Config{}, 0, fmt.Errorf("reading config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return investigator.Config{}, 0, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if fc.Model != "" {
			cfg.Model = fc.Model
		}
		if fc.MaxTurns > 0 {
			cfg.MaxTurns = fc.MaxTurns
		}
		cfg.ReadOnly = fc.ReadOnly
		cfg.Toolsets = fc.Toolsets
		cfg.Temperatures = fc.Temperatures
		if fc.Timeout != "" {
			d, err := time.ParseDuration(fc.Timeout)
			if err != nil {
				return investigator.Config{}, 0, fmt.Errorf("parsing timeout in %s: %w", path, err)
			}
			cfg.Timeout = d
		}
	}

	return cfg, env.Port, nil
}

// newInvestigator loads configuration and builds the Investigator for a
// subcommand invocation.
func newInvestigator(cmd *cobra.Command) (*investigator.Investigator, int, error) {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("config")
	cfg, port, err := loadConfig(ctx, path, envconfig.OsLookuper())
	if err != nil {
		return nil, 0, err
	}
	inv, err := investigator.New(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	return inv, port, nil
}
