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

// Package services exposes the read-side operations of the system: semantic
// scene search over the vector index and lookups against the relational
// store.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/llm"
)

// DefaultTopK is the number of nearest scenes returned when the caller does
// not ask for a specific count.
const DefaultTopK = 5

// VectorQuerier runs nearest-neighbor searches over the scene embeddings.
type VectorQuerier interface {
	Query(ctx context.Context, vector []float32, topK int) ([]*model.SceneMatch, error)
}

// SearchService converts a natural-language query into an embedding and
// finds the most semantically similar scenes.
type SearchService struct {
	embedder llm.Embedder
	vectors  VectorQuerier
	topK     int
}

// NewSearchService is the constructor for the SearchService. The configured
// defaultTopK applies when a caller does not ask for a specific result count;
// a non-positive value falls back to DefaultTopK.
func NewSearchService(embedder llm.Embedder, vectors VectorQuerier, defaultTopK int) *SearchService {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &SearchService{embedder: embedder, vectors: vectors, topK: defaultTopK}
}

// FindScenes embeds the query text and returns the top maxResults matches.
// A non-positive maxResults falls back to the service's configured default.
func (s *SearchService) FindScenes(ctx context.Context, query string, maxResults int) ([]*model.SceneMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if maxResults <= 0 {
		maxResults = s.topK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed search query: %w", err)
	}

	matches, err := s.vectors.Query(ctx, vector, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search scenes: %w", err)
	}
	return matches, nil
}

// SceneContext renders a match's scene text inside delimiters, the form
// downstream prompts consume when search results feed another model call.
func SceneContext(match *model.SceneMatch) string {
	return fmt.Sprintf("<START SCENE>\n%s\n<END SCENE>", match.EmbeddingText)
}

// FindSceneContexts runs FindScenes and returns the matches rendered as
// delimited scene contexts, preserving rank order.
func (s *SearchService) FindSceneContexts(ctx context.Context, query string, maxResults int) ([]string, error) {
	matches, err := s.FindScenes(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	contexts := make([]string, 0, len(matches))
	for _, m := range matches {
		contexts = append(contexts, SceneContext(m))
	}
	return contexts, nil
}
