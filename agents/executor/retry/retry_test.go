/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kknudson15/investigator/agents/executor/retry"
)

var errTransient = errors.New("rate limited")

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		Attempts:  attempts,
		BaseDelay: time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), fastConfig(3), "op", func(error) bool { return true }, func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 || calls != 1 {
		t.Errorf("got %d after %d calls", got, calls)
	}
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), fastConfig(3), "op", func(error) bool { return true }, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	_, err := retry.Do(context.Background(), fastConfig(5), "op", func(err error) bool {
		return !errors.Is(err, permanent)
	}, func() (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), fastConfig(2), "stream", func(error) bool { return true }, func() (int, error) {
		calls++
		return 0, errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected wrapped transient error, got %v", err)
	}
	if calls != 3 { // initial try + 2 retries
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := retry.Config{Attempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := retry.Do(ctx, cfg, "op", func(error) bool { return true }, func() (int, error) {
		return 0, errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := retry.DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	bad := retry.Config{Attempts: -1}
	if err := bad.Validate(); err == nil {
		t.Error("negative attempts should fail validation")
	}
}
