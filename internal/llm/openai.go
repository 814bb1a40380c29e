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

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// OpenAIChatModel adapts the OpenAI Responses API to the ChatModel contract.
// Structured output is enforced through a strict json_schema text format, so
// the decoded payload always matches the requested OutputSpec shape.
type OpenAIChatModel struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewOpenAIChatModel builds a ChatModel backed by the given OpenAI client
// and model name. A maxTokens of 0 leaves the provider default in place.
func NewOpenAIChatModel(client *openai.Client, model string, temperature float64, maxTokens int64) *OpenAIChatModel {
	return &OpenAIChatModel{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// GenerateStructured sends the system instruction and prompt and returns the
// model's JSON output text.
func (m *OpenAIChatModel) GenerateStructured(ctx context.Context, system string, prompt string, spec *OutputSpec) (string, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   spec.Name,
			Schema: spec.Schema,
			Strict: openai.Bool(true),
			Type:   "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:        m.model,
		Instructions: openai.String(system),
		Temperature:  openai.Float(m.temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
	if m.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(m.maxTokens)
	}

	resp, err := m.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai structured completion failed: %w", err)
	}
	return resp.OutputText(), nil
}

// OpenAIEmbedder adapts the OpenAI Embeddings API to the Embedder contract.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder builds an Embedder backed by the given OpenAI client and
// embedding model name (e.g. "text-embedding-3-small").
func NewOpenAIEmbedder(client *openai.Client, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model}
}

// Embed returns the embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding returned no data for model %s", e.model)
	}
	out := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		out[i] = float32(v)
	}
	return out, nil
}
