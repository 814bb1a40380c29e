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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trubyai/screenplay-search/internal/llm"
)

type flakyChatModel struct {
	failures int
	calls    int
}

func (m *flakyChatModel) GenerateStructured(_ context.Context, _ string, _ string, _ *llm.OutputSpec) (string, error) {
	m.calls++
	if m.calls <= m.failures {
		return "", errors.New("transient provider error")
	}
	return `{"ok": true}`, nil
}

func newTestWrapper(wrapped llm.ChatModel) *QuotaAwareChatModel {
	q := NewQuotaAwareChatModel(wrapped, 100)
	q.retryDelay = time.Millisecond
	return q
}

func TestQuotaAwareChatModelPassesThrough(t *testing.T) {
	inner := &flakyChatModel{}
	q := newTestWrapper(inner)

	out, err := q.GenerateStructured(context.Background(), "system", "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, 1, inner.calls)
}

func TestQuotaAwareChatModelRetriesTransientFailures(t *testing.T) {
	inner := &flakyChatModel{failures: 2}
	q := newTestWrapper(inner)

	out, err := q.GenerateStructured(context.Background(), "system", "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, 3, inner.calls)
}

func TestQuotaAwareChatModelGivesUpAfterMaxRetries(t *testing.T) {
	inner := &flakyChatModel{failures: MaxRetries + 10}
	q := newTestWrapper(inner)

	_, err := q.GenerateStructured(context.Background(), "system", "prompt", nil)
	require.Error(t, err)
	assert.Equal(t, MaxRetries+1, inner.calls)
}

func TestQuotaAwareChatModelHonorsContextCancellation(t *testing.T) {
	inner := &flakyChatModel{failures: 100}
	q := NewQuotaAwareChatModel(inner, 100)
	q.retryDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := q.GenerateStructured(ctx, "system", "prompt", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
