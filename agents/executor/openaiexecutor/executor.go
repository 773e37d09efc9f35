/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go/v2"

	"github.com/kknudson15/investigator/agents/agenttrace"
	"github.com/kknudson15/investigator/agents/executor/retry"
	"github.com/kknudson15/investigator/agents/metrics"
	"github.com/kknudson15/investigator/agents/promptbuilder"
	"github.com/kknudson15/investigator/agents/toolcall"
)

// ErrMaxTurnsExceeded is returned when the conversation hits the turn
// budget before the model produces a final answer. Callers typically turn
// this into a fallback report rather than a hard failure.
var ErrMaxTurnsExceeded = errors.New("turn budget exhausted before a final answer")

// Interface is the public interface for agent execution. The returned
// string is the model's final answer, expected to be markdown.
type Interface[Request promptbuilder.Bindable] interface {
	// Execute runs the agent conversation with the given request and tools.
	Execute(ctx context.Context, request Request, tools toolcall.Map) (string, error)
}

// executor provides the private implementation.
type executor[Request promptbuilder.Bindable] struct {
	client             openai.Client
	modelName          string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	temperature        float64
	maxTurns           int
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates an executor for the given client and user prompt template.
func New[Request promptbuilder.Bindable](client openai.Client, prompt *promptbuilder.Prompt, opts ...Option[Request]) (Interface[Request], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[Request]{
		client:       client,
		modelName:    openai.ChatModelGPT4_1Mini,
		prompt:       prompt,
		temperature:  0.2,
		maxTurns:     20,
		genaiMetrics: metrics.NewGenAI("investigator.agents"),
		retryConfig:  retry.DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	return e, nil
}

// Execute runs the agent conversation with the given request and tools.
func (e *executor[Request]) Execute(ctx context.Context, request Request, tools toolcall.Map) (response string, err error) {
	log := clog.FromContext(ctx)

	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return "", fmt.Errorf("binding request to prompt: %w", err)
	}
	prompt, err := boundPrompt.Build()
	if err != nil {
		return "", fmt.Errorf("building prompt: %w", err)
	}

	trace := agenttrace.StartTrace(ctx, prompt)
	defer func() {
		trace.Complete(response, err)
	}()

	log.With("model", e.modelName).
		With("prompt_length", len(prompt)).
		With("tools", len(tools)).
		Info("Starting agent execution")

	toolDefs := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		toolDefs = append(toolDefs, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        tool.Def.Name,
			Description: openai.String(tool.Def.Description),
			Parameters:  openai.FunctionParameters(tool.Def.Schema),
		}))
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if e.systemInstructions != nil {
		system, err := e.systemInstructions.Build()
		if err != nil {
			return "", fmt.Errorf("building system instructions: %w", err)
		}
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       e.modelName,
		Messages:    messages,
		Temperature: openai.Float(e.temperature),
	}
	if len(toolDefs) > 0 {
		params.Tools = toolDefs
	}

	for turn := 0; turn < e.maxTurns; turn++ {
		completion, err := retry.Do(ctx, e.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
			return e.client.Chat.Completions.New(ctx, params)
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}

		if completion.Usage.PromptTokens > 0 || completion.Usage.CompletionTokens > 0 {
			e.genaiMetrics.RecordTokens(ctx, e.modelName, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
			trace.RecordTokenUsage(e.modelName, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
		}

		if len(completion.Choices) == 0 {
			return "", errors.New("no choices in completion response")
		}
		message := completion.Choices[0].Message

		if len(message.ToolCalls) > 0 {
			params.Messages = append(params.Messages, message.ToParam())
			for _, tc := range message.ToolCalls {
				e.genaiMetrics.RecordToolCall(ctx, e.modelName, tc.Function.Name)

				result := e.dispatchToolCall(ctx, trace, tools, tc.ID, tc.Function.Name, tc.Function.Arguments)
				resultBytes, err := json.Marshal(result)
				if err != nil {
					return "", fmt.Errorf("marshaling tool result: %w", err)
				}
				params.Messages = append(params.Messages, openai.ToolMessage(string(resultBytes), tc.ID))
			}
			continue
		}

		if message.Content != "" {
			log.With("turns", turn+1).Info("Agent execution completed")
			return message.Content, nil
		}
		return "", errors.New("no content in model response")
	}

	return "", fmt.Errorf("%w (max_turns=%d)", ErrMaxTurnsExceeded, e.maxTurns)
}

// dispatchToolCall routes one tool call to its handler. Failures are
// reported in-band so the model can recover.
func (e *executor[Request]) dispatchToolCall(ctx context.Context, trace *agenttrace.Trace, tools toolcall.Map, id, name, rawArgs string) map[string]any {
	log := clog.FromContext(ctx)

	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			log.With("tool", name).With("error", err).Error("Malformed tool arguments")
			trace.BadToolCall(id, name, map[string]any{"raw": rawArgs}, err)
			return toolcall.Error("malformed arguments for %q: %v", name, err)
		}
	}

	tool, ok := tools[name]
	if !ok {
		log.With("tool", name).Error("Unknown tool requested")
		err := fmt.Errorf("unknown tool: %q", name)
		trace.BadToolCall(id, name, args, err)
		return toolcall.Error("unknown tool: %q", name)
	}

	log.With("tool", name).With("id", id).Info("Executing tool call")
	rec := trace.StartToolCall(id, name, args)
	result := tool.Handler(ctx, toolcall.Call{ID: id, Name: name, Args: args})

	var callErr error
	if msg, failed := result["error"].(string); failed {
		callErr = errors.New(msg)
	}
	rec.Complete(result, callErr)
	return result
}
