/*
Copyright 2026 The Investigator Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"

	"github.com/openai/openai-go/v2"
)

// isRetryableOpenAIError reports whether an error is a transient OpenAI API
// error: rate limits, timeouts, and server-side failures.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 408, 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
