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

package store

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v2/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/trubyai/screenplay-search/internal/core/model"
)

// VectorIndex wraps one Pinecone index connection. Vector ids mirror the
// document-store ids so a search match can be joined back to its scene.
type VectorIndex struct {
	conn *pinecone.IndexConnection
}

// NewVectorIndex dials the Pinecone index at host within the given
// namespace.
func NewVectorIndex(ctx context.Context, apiKey, host, namespace string) (*VectorIndex, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}
	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: host, Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index %s: %w", host, err)
	}
	return &VectorIndex{conn: conn}, nil
}

// Upsert writes one embedding under the given id. Metadata carries the
// scalar scene fields only, never the vector itself.
func (v *VectorIndex) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	meta, err := structpb.NewStruct(metadata)
	if err != nil {
		return fmt.Errorf("failed to build vector metadata for %s: %w", id, err)
	}
	_, err = v.conn.UpsertVectors(ctx, []*pinecone.Vector{{
		Id:       id,
		Values:   vector,
		Metadata: meta,
	}})
	if err != nil {
		return fmt.Errorf("failed to upsert vector %s: %w", id, err)
	}
	return nil
}

// Query runs a nearest-neighbor search and maps the matches back to scene
// metadata.
func (v *VectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]*model.SceneMatch, error) {
	resp, err := v.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	matches := make([]*model.SceneMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m.Vector == nil {
			continue
		}
		match := &model.SceneMatch{
			DocumentID: m.Vector.Id,
			Score:      m.Score,
		}
		if m.Vector.Metadata != nil {
			fields := m.Vector.Metadata.AsMap()
			match.SceneID = metadataInt(fields, "scene_id")
			match.ScreenplayID = metadataInt(fields, "screenplay_id")
			match.SceneNumber = int(metadataInt(fields, "scene_number"))
			match.AISummary = metadataString(fields, "ai_summary")
			match.EmbeddingText = metadataString(fields, "embedding_text")
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// DeleteByIDs removes vectors, used when a screenplay is torn down.
func (v *VectorIndex) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := v.conn.DeleteVectorsById(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}
	return nil
}

func metadataInt(fields map[string]any, key string) int64 {
	if f, ok := fields[key].(float64); ok {
		return int64(f)
	}
	return 0
}

func metadataString(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
