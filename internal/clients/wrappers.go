// Copyright 2025 Truby AI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package clients

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/trubyai/screenplay-search/internal/llm"
)

// MaxRetries is the number of additional attempts made after a failed model
// call before giving up.
const MaxRetries = 3

// QuotaAwareChatModel decorates a chat model with rate limiting and bounded
// retries. Provider quotas make the raw client unreliable for a loop that
// classifies a scene every few seconds; the wrapper keeps the sequencer
// oblivious to both concerns.
type QuotaAwareChatModel struct {
	wrapped    llm.ChatModel
	limiter    *rate.Limiter
	retryDelay time.Duration
}

// NewQuotaAwareChatModel wraps the given model, allowing requestsPerSecond
// calls with the same burst.
func NewQuotaAwareChatModel(wrapped llm.ChatModel, requestsPerSecond int) *QuotaAwareChatModel {
	return &QuotaAwareChatModel{
		wrapped:    wrapped,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		retryDelay: 2 * time.Second,
	}
}

// GenerateStructured waits for a rate-limit token, then delegates. Transient
// failures are retried with a fixed delay up to MaxRetries times.
func (q *QuotaAwareChatModel) GenerateStructured(ctx context.Context, system string, prompt string, spec *llm.OutputSpec) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if err := q.limiter.Wait(ctx); err != nil {
			return "", err
		}
		out, err := q.wrapped.GenerateStructured(ctx, system, prompt, spec)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt < MaxRetries {
			select {
			case <-time.After(q.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("generation failed after %d retries: %w", MaxRetries, lastErr)
}
