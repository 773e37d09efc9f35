/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"
	"fmt"

	"github.com/kknudson15/investigator/agents/executor/retry"
	"github.com/kknudson15/investigator/agents/promptbuilder"
)

// Option is a functional option for configuring the executor.
type Option[Request promptbuilder.Bindable] func(*executor[Request]) error

// WithModel overrides the model name. Defaults to gpt-4.1-mini.
func WithModel[Request promptbuilder.Bindable](model string) Option[Request] {
	return func(e *executor[Request]) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		e.modelName = model
		return nil
	}
}

// WithTemperature sets the sampling temperature, in [0.0, 2.0].
// Lower values keep investigations deterministic.
func WithTemperature[Request promptbuilder.Bindable](temp float64) Option[Request] {
	return func(e *executor[Request]) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithMaxTurns sets the conversation turn budget. A turn is one model
// round-trip; tool calls and their results consume turns.
func WithMaxTurns[Request promptbuilder.Bindable](turns int) Option[Request] {
	return func(e *executor[Request]) error {
		if turns <= 0 {
			return fmt.Errorf("max turns must be positive, got %d", turns)
		}
		e.maxTurns = turns
		return nil
	}
}

// WithSystemInstructions sets the system prompt.
func WithSystemInstructions[Request promptbuilder.Bindable](prompt *promptbuilder.Prompt) Option[Request] {
	return func(e *executor[Request]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.systemInstructions = prompt
		return nil
	}
}

// WithRetryConfig sets the backoff configuration for transient API errors
// (429 rate limits and 5xx server errors).
func WithRetryConfig[Request promptbuilder.Bindable](cfg retry.Config) Option[Request] {
	return func(e *executor[Request]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
