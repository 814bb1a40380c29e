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

// Package llm defines the narrow contracts the pipeline needs from language
// and embedding model providers, plus adapters for the supported backends.
// The core never talks to a provider SDK directly; it asks a ChatModel for a
// structured JSON completion and an Embedder for a vector, and the adapters
// in this package translate those calls to the provider-specific APIs.
package llm

import "context"

// OutputSpec names and describes the JSON shape a structured completion must
// produce. Schema is a JSON Schema document (a map produced by
// GenerateSchema); providers that support strict schema enforcement pass it
// through, others rely on the prompt's embedded format directive.
type OutputSpec struct {
	Name   string
	Schema map[string]interface{}
}

// ChatModel produces a structured JSON completion for a system instruction
// plus user prompt. The returned string is the raw JSON text with any
// provider fencing already stripped.
type ChatModel interface {
	GenerateStructured(ctx context.Context, system string, prompt string, spec *OutputSpec) (string, error)
}

// Embedder converts text into a fixed-length embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
