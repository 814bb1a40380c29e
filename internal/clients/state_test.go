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
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// testProviderFactories returns factories that fail the test when invoked,
// for cases where no provider client should ever be constructed.
func testProviderFactories(t *testing.T) (func() *openai.Client, func() (*genai.Client, error)) {
	t.Helper()
	getOpenAI := func() *openai.Client {
		t.Error("openai client must not be constructed")
		return &openai.Client{}
	}
	getGemini := func() (*genai.Client, error) {
		t.Error("gemini client must not be constructed")
		return nil, nil
	}
	return getOpenAI, getGemini
}

func TestBuildChatModelsUnknownProviderFails(t *testing.T) {
	config := NewConfig()
	config.AgentModels["beat-classifier"] = AgentModel{Provider: "watson", Model: "jeopardy"}

	getOpenAI, getGemini := testProviderFactories(t)
	_, err := buildChatModels(config, getOpenAI, getGemini)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "watson"`)
}

func TestBuildChatModelsWrapsWithQuotaLimiter(t *testing.T) {
	config := NewConfig()
	config.AgentModels["beat-classifier"] = AgentModel{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   1024,
		// Zero rate limit must floor to one request per second, not zero.
	}

	client := &openai.Client{}
	models, err := buildChatModels(config, func() *openai.Client { return client }, nil)
	require.NoError(t, err)
	require.Contains(t, models, "beat-classifier")

	wrapped, ok := models["beat-classifier"].(*QuotaAwareChatModel)
	require.True(t, ok)
	assert.NotNil(t, wrapped)
}

func TestBuildEmbeddersUnknownProviderFails(t *testing.T) {
	config := NewConfig()
	config.EmbeddingModels["scene-embedder"] = EmbeddingModel{Provider: "watson", Model: "jeopardy"}

	getOpenAI, getGemini := testProviderFactories(t)
	_, err := buildEmbedders(config, getOpenAI, getGemini)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "watson"`)
}

func TestBuildEmbeddersOpenAI(t *testing.T) {
	config := NewConfig()
	config.EmbeddingModels["scene-embedder"] = EmbeddingModel{
		Provider: ProviderOpenAI,
		Model:    "text-embedding-3-small",
	}

	client := &openai.Client{}
	embedders, err := buildEmbedders(config, func() *openai.Client { return client }, nil)
	require.NoError(t, err)
	assert.Contains(t, embedders, "scene-embedder")
}
