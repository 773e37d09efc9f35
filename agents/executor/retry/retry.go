/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package retry implements exponential backoff with jitter for transient
// API errors, driven by a caller-supplied classifier.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config controls backoff behavior for an operation.
type Config struct {
	// Attempts is the number of retries after the first failure.
	// 0 disables retrying.
	Attempts int
	// BaseDelay is the initial backoff, doubled on each retry.
	BaseDelay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
	// MaxJitter is the upper bound of random jitter added to each delay.
	MaxJitter time.Duration
}

// Validate checks the configuration for nonsensical values.
func (c Config) Validate() error {
	if c.Attempts < 0 {
		return errors.New("retry attempts cannot be negative")
	}
	if c.BaseDelay < 0 || c.MaxDelay < 0 || c.MaxJitter < 0 {
		return errors.New("retry delays cannot be negative")
	}
	return nil
}

// DefaultConfig returns a configuration tuned for rate-limited LLM APIs,
// where quota errors need more headroom than typical transient failures.
func DefaultConfig() Config {
	return Config{
		Attempts:  5,
		BaseDelay: time.Second,
		MaxDelay:  60 * time.Second,
		MaxJitter: 500 * time.Millisecond,
	}
}

// Do runs fn, retrying with exponential backoff while retryable classifies
// the error as transient. Non-retryable errors are returned immediately.
func Do[T any](ctx context.Context, cfg Config, operation string, retryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.Attempts; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}
		if !retryable(lastErr) {
			return result, lastErr
		}
		if attempt >= cfg.Attempts {
			break
		}

		delay := min(cfg.BaseDelay<<attempt, cfg.MaxDelay)
		delay += jitter(cfg.MaxJitter)

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("delay", delay).
			With("error", lastErr.Error()).
			Warn("Transient error, backing off")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.Attempts, lastErr)
}

// jitter returns a random duration in [0, max).
func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
