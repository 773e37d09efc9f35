/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kknudson15/investigator/investigator"
)

// stubRunner returns canned markdown per operation and records the last
// request it saw.
type stubRunner struct {
	err error

	lastInvestigate investigator.ErrorInvestigationRequest
	lastActivity    investigator.RepoActivityRequest
	lastDaily       investigator.DailyReportRequest
	lastPRRisk      investigator.PRRiskRequest
}

func (s *stubRunner) Investigate(_ context.Context, req investigator.ErrorInvestigationRequest) (string, error) {
	s.lastInvestigate = req
	return "## Investigation", s.err
}

func (s *stubRunner) SummarizeActivity(_ context.Context, req investigator.RepoActivityRequest) (string, error) {
	s.lastActivity = req
	return "## Activity", s.err
}

func (s *stubRunner) GenerateDailyReport(_ context.Context, req investigator.DailyReportRequest) (string, error) {
	s.lastDaily = req
	return "# Daily Report", s.err
}

func (s *stubRunner) AnalyzePRRisk(_ context.Context, req investigator.PRRiskRequest) (string, error) {
	s.lastPRRisk = req
	return "## PR Risk", s.err
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body), "decoding response")
	return body
}

func TestEndpoints(t *testing.T) {
	runner := &stubRunner{}
	h := New(runner).Handler()

	tests := []struct {
		path string
		body string
		key  string
		want string
	}{
		{"/investigate", `{"error_message": "boom", "repo_slug": "o/r"}`, "analysis_markdown", "## Investigation"},
		{"/activity", `{"repo_slug": "o/r"}`, "activity_markdown", "## Activity"},
		{"/daily_report", `{"repo_slug": "o/r"}`, "report_markdown", "# Daily Report"},
		{"/pr_risk", `{"repo_slug": "o/r", "pr_number": 3}`, "pr_risk_markdown", "## PR Risk"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			require.Equal(t, http.StatusOK, rec.Code, "body = %s", rec.Body)
			assert.Equal(t, tt.want, decodeBody(t, rec)[tt.key])
		})
	}

	if runner.lastInvestigate.ErrorMessage != "boom" {
		t.Errorf("investigate request not forwarded: %+v", runner.lastInvestigate)
	}
	if runner.lastPRRisk.PRNumber != 3 {
		t.Errorf("pr_risk request not forwarded: %+v", runner.lastPRRisk)
	}
}

func TestMalformedBody(t *testing.T) {
	h := New(&stubRunner{}).Handler()

	for _, body := range []string{"", "{", `{"error_message": 42}`, `{"nope": true}`} {
		rec := post(t, h, "/investigate", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
		if decodeBody(t, rec)["detail"] == "" {
			t.Errorf("body %q: missing error detail", body)
		}
	}
}

func TestValidationErrorIs400(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("%w: error_message is required", investigator.ErrInvalidRequest)}
	rec := post(t, New(runner).Handler(), "/investigate", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(decodeBody(t, rec)["detail"], "error_message") {
		t.Errorf("detail should name the missing field: %s", rec.Body)
	}
}

func TestOperationErrorIs502(t *testing.T) {
	runner := &stubRunner{err: errors.New("openai: rate limited")}
	rec := post(t, New(runner).Handler(), "/investigate", `{"error_message": "boom", "repo_slug": "o/r"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	New(&stubRunner{}).Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec)["status"] != "ok" {
		t.Errorf("unexpected body: %s", rec.Body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/investigate", nil)
	rec := httptest.NewRecorder()
	New(&stubRunner{}).Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
