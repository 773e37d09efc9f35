/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes the agent operations over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/kknudson15/investigator/investigator"
)

// Runner is the slice of *investigator.Investigator the handlers need.
type Runner interface {
	Investigate(ctx context.Context, req investigator.ErrorInvestigationRequest) (string, error)
	SummarizeActivity(ctx context.Context, req investigator.RepoActivityRequest) (string, error)
	GenerateDailyReport(ctx context.Context, req investigator.DailyReportRequest) (string, error)
	AnalyzePRRisk(ctx context.Context, req investigator.PRRiskRequest) (string, error)
}

// Server wires the operations into an http.Handler.
type Server struct {
	runner Runner
}

func New(runner Runner) *Server {
	return &Server{runner: runner}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /investigate", handle(s.runner.Investigate, "analysis_markdown"))
	mux.HandleFunc("POST /activity", handle(s.runner.SummarizeActivity, "activity_markdown"))
	mux.HandleFunc("POST /daily_report", handle(s.runner.GenerateDailyReport, "report_markdown"))
	mux.HandleFunc("POST /pr_risk", handle(s.runner.AnalyzePRRisk, "pr_risk_markdown"))
	return mux
}

// ListenAndServe runs the API until ctx is canceled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	clog.FromContext(ctx).With("addr", addr).Info("Serving investigator API")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

// handle decodes the request body, runs the operation, and writes the
// markdown result under the given response key.
func handle[Request any](op func(context.Context, Request) (string, error), key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req Request
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request body: %w", err))
			return
		}

		md, err := op(ctx, req)
		switch {
		case errors.Is(err, investigator.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err)
		case err != nil:
			clog.FromContext(ctx).With("path", r.URL.Path, "error", err).Error("Operation failed")
			writeError(w, http.StatusBadGateway, err)
		default:
			writeJSON(w, http.StatusOK, map[string]string{key: md})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"detail": err.Error()})
}
