/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/kknudson15/investigator/agents/executor/openaiexecutor"
	"github.com/kknudson15/investigator/agents/promptbuilder"
	"github.com/kknudson15/investigator/agents/toolcall"
)

// repoRequest implements promptbuilder.Bindable for testing.
type repoRequest struct {
	Repo string
}

func (r *repoRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindText("repo", r.Repo)
}

// completionServer replays canned chat completion responses in order and
// records the request bodies it received.
type completionServer struct {
	mu        sync.Mutex
	responses []string
	requests  []map[string]any
}

func (s *completionServer) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.requests = append(s.requests, body)

	if len(s.responses) == 0 {
		http.Error(w, "no canned responses left", http.StatusInternalServerError)
		return
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, resp)
}

func textResponse(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-1", "object": "chat.completion", "model": "gpt-4.1-mini",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": %q}}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19}
	}`, content)
}

func toolCallResponse(id, name, args string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-2", "object": "chat.completion", "model": "gpt-4.1-mini",
		"choices": [{"index": 0, "finish_reason": "tool_calls",
			"message": {"role": "assistant", "tool_calls": [
				{"id": %q, "type": "function", "function": {"name": %q, "arguments": %q}}
			]}}],
		"usage": {"prompt_tokens": 20, "completion_tokens": 9, "total_tokens": 29}
	}`, id, name, args)
}

func newTestExecutor(t *testing.T, srv *completionServer, opts ...openaiexecutor.Option[*repoRequest]) openaiexecutor.Interface[*repoRequest] {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(srv.handler))
	t.Cleanup(ts.Close)

	client := openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(ts.URL),
		option.WithMaxRetries(0),
	)

	prompt, err := promptbuilder.New("Summarize activity for {{repo}}.")
	if err != nil {
		t.Fatal(err)
	}
	exec, err := openaiexecutor.New(client, prompt, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return exec
}

func TestExecuteReturnsFinalAnswer(t *testing.T) {
	srv := &completionServer{responses: []string{textResponse("## Summary\nNothing broke.")}}
	exec := newTestExecutor(t, srv)

	got, err := exec.Execute(context.Background(), &repoRequest{Repo: "kknudson15/Agentic_AI"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "## Summary") {
		t.Errorf("unexpected answer: %q", got)
	}

	// The bound prompt must have reached the API.
	msgs := srv.requests[0]["messages"].([]any)
	user := msgs[len(msgs)-1].(map[string]any)
	if content := user["content"].(string); !strings.Contains(content, "kknudson15/Agentic_AI") {
		t.Errorf("user prompt not bound: %q", content)
	}
}

func TestExecuteDispatchesToolCalls(t *testing.T) {
	srv := &completionServer{responses: []string{
		toolCallResponse("call_1", "list_workflow_runs", `{"branch": "main"}`),
		textResponse("## Summary\nThe workflow failed on main."),
	}}
	exec := newTestExecutor(t, srv)

	var gotCall toolcall.Call
	tools := toolcall.Map{
		"list_workflow_runs": {
			Def: toolcall.Definition{Name: "list_workflow_runs", Description: "List workflow runs"},
			Handler: func(_ context.Context, call toolcall.Call) map[string]any {
				gotCall = call
				return toolcall.Text("run 42 failed")
			},
		},
	}

	got, err := exec.Execute(context.Background(), &repoRequest{Repo: "org/repo"}, tools)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "failed on main") {
		t.Errorf("unexpected answer: %q", got)
	}
	if gotCall.Name != "list_workflow_runs" || gotCall.Args["branch"] != "main" {
		t.Errorf("handler got %+v", gotCall)
	}

	// Second request must carry the tool result back to the model.
	msgs := srv.requests[1]["messages"].([]any)
	last := msgs[len(msgs)-1].(map[string]any)
	if last["role"] != "tool" {
		t.Fatalf("expected trailing tool message, got role %v", last["role"])
	}
	if content := last["content"].(string); !strings.Contains(content, "run 42 failed") {
		t.Errorf("tool result not forwarded: %q", content)
	}
}

func TestExecuteUnknownToolReportedInBand(t *testing.T) {
	srv := &completionServer{responses: []string{
		toolCallResponse("call_1", "no_such_tool", `{}`),
		textResponse("done"),
	}}
	exec := newTestExecutor(t, srv)

	if _, err := exec.Execute(context.Background(), &repoRequest{Repo: "org/repo"}, toolcall.Map{}); err != nil {
		t.Fatalf("unknown tool should not fail the run: %v", err)
	}

	msgs := srv.requests[1]["messages"].([]any)
	last := msgs[len(msgs)-1].(map[string]any)
	if content := last["content"].(string); !strings.Contains(content, "unknown tool") {
		t.Errorf("expected in-band error payload, got %q", content)
	}
}

func TestExecuteMaxTurnsExceeded(t *testing.T) {
	// The model asks for a tool on every turn and never answers.
	srv := &completionServer{responses: []string{
		toolCallResponse("call_1", "probe", `{}`),
		toolCallResponse("call_2", "probe", `{}`),
		toolCallResponse("call_3", "probe", `{}`),
	}}
	exec := newTestExecutor(t, srv, openaiexecutor.WithMaxTurns[*repoRequest](3))

	tools := toolcall.Map{
		"probe": {
			Def: toolcall.Definition{Name: "probe", Description: "probe"},
			Handler: func(context.Context, toolcall.Call) map[string]any {
				return toolcall.Text("nothing")
			},
		},
	}

	_, err := exec.Execute(context.Background(), &repoRequest{Repo: "org/repo"}, tools)
	if !errors.Is(err, openaiexecutor.ErrMaxTurnsExceeded) {
		t.Fatalf("expected ErrMaxTurnsExceeded, got %v", err)
	}
}

func TestOptionValidation(t *testing.T) {
	client := openai.NewClient(option.WithAPIKey("k"))
	prompt, err := promptbuilder.New("hi")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opt  openaiexecutor.Option[*repoRequest]
	}{
		{"empty model", openaiexecutor.WithModel[*repoRequest]("")},
		{"negative temperature", openaiexecutor.WithTemperature[*repoRequest](-0.1)},
		{"huge temperature", openaiexecutor.WithTemperature[*repoRequest](2.5)},
		{"zero turns", openaiexecutor.WithMaxTurns[*repoRequest](0)},
		{"nil system prompt", openaiexecutor.WithSystemInstructions[*repoRequest](nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := openaiexecutor.New(client, prompt, tt.opt); err == nil {
				t.Error("expected option validation error")
			}
		})
	}

	if _, err := openaiexecutor.New[*repoRequest](client, nil); err == nil {
		t.Error("expected error for nil prompt")
	}
}
