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

package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiChatModel adapts the Gemini API to the ChatModel contract. Gemini's
// JSON mode does not take the reflected schema document directly, so the
// adapter requests the application/json response MIME type and relies on the
// format directive every prompt embeds; fenced output is stripped before the
// caller decodes it.
type GeminiChatModel struct {
	models      *genai.Models
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiChatModel builds a ChatModel backed by the given genai model
// collection and model name. A maxTokens of 0 leaves the provider default.
func NewGeminiChatModel(models *genai.Models, model string, temperature float32, maxTokens int32) *GeminiChatModel {
	return &GeminiChatModel{
		models:      models,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// GenerateStructured sends the system instruction and prompt and returns the
// model's JSON output text with any markdown fencing removed.
func (m *GeminiChatModel) GenerateStructured(ctx context.Context, system string, prompt string, _ *OutputSpec) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](m.temperature),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
	}
	if m.maxTokens > 0 {
		config.MaxOutputTokens = m.maxTokens
	}

	resp, err := m.models.GenerateContent(ctx, m.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini structured completion failed: %w", err)
	}

	value := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += part.Text
			}
		}
	}
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value), nil
}

// GeminiEmbedder adapts Gemini's EmbedContent API to the Embedder contract.
type GeminiEmbedder struct {
	models *genai.Models
	model  string
}

// NewGeminiEmbedder builds an Embedder backed by the given genai model
// collection and embedding model name.
func NewGeminiEmbedder(models *genai.Models, model string) *GeminiEmbedder {
	return &GeminiEmbedder{models: models, model: model}
}

// Embed returns the embedding vector for the given text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	resp, err := e.models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("gemini embedding returned no data for model %s", e.model)
	}
	return resp.Embeddings[0].Values, nil
}
