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

package commands

import (
	"context"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/llm"
)

// DocumentWriter stores the full per-scene document and returns its id.
type DocumentWriter interface {
	InsertSceneDocument(ctx context.Context, doc *model.SceneDocument) (string, error)
}

// VectorWriter upserts one scene embedding under the given id.
type VectorWriter interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error
}

// SceneIndexer performs the secondary writes for one scene: embed, store the
// document, upsert the vector. Each step can fail independently; the caller
// records whatever ids were produced before the failure and moves on.
type SceneIndexer struct {
	embedder  llm.Embedder
	documents DocumentWriter
	vectors   VectorWriter
}

// NewSceneIndexer is the constructor for the SceneIndexer.
func NewSceneIndexer(embedder llm.Embedder, documents DocumentWriter, vectors VectorWriter) *SceneIndexer {
	return &SceneIndexer{embedder: embedder, documents: documents, vectors: vectors}
}

// Index embeds the scene and writes the document and vector records. The
// summary is the preferred embedding text; scenes that skip classification
// have no summary, so their cleaned scene text is embedded instead. Returns
// the document id when the document write succeeded, even if the vector
// upsert after it failed.
func (x *SceneIndexer) Index(ctx context.Context, scene *model.Scene, text *model.SceneText) (string, error) {
	embeddingInput := scene.AISummary
	if embeddingInput == "" {
		embeddingInput = text.EmbeddingText
	}

	vector, err := x.embedder.Embed(ctx, embeddingInput)
	if err != nil {
		return "", &IndexingError{Step: StepEmbedding, SceneNumber: scene.SceneNumber, Err: err}
	}

	doc := &model.SceneDocument{
		SceneID:         scene.ID,
		SceneNumber:     scene.SceneNumber,
		PreviousSceneID: scene.PreviousSceneID,
		NextSceneID:     scene.NextSceneID,
		AISummary:       scene.AISummary,
		StoryBeat:       scene.Beat,
		ScreenplayID:    scene.ScreenplayID,
		RawText:         text.RawText,
		EmbeddingText:   text.EmbeddingText,
		Embedding:       vector,
	}
	documentID, err := x.documents.InsertSceneDocument(ctx, doc)
	if err != nil {
		return "", &IndexingError{Step: StepDocumentWrite, SceneNumber: scene.SceneNumber, Err: err}
	}

	// Scalar fields only: the vector store already holds the embedding as
	// the vector itself.
	metadata := map[string]any{
		"scene_id":       scene.ID,
		"screenplay_id":  scene.ScreenplayID,
		"scene_number":   scene.SceneNumber,
		"story_beat":     scene.Beat,
		"ai_summary":     scene.AISummary,
		"embedding_text": text.EmbeddingText,
		"raw_text":       text.RawText,
	}
	if err := x.vectors.Upsert(ctx, documentID, vector, metadata); err != nil {
		return documentID, &IndexingError{Step: StepVectorUpsert, SceneNumber: scene.SceneNumber, Err: err}
	}
	return documentID, nil
}
