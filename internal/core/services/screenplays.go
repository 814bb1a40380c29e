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

package services

import (
	"context"
	"log/slog"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
)

// SceneDocumentStore is the document-store surface the service needs: fetch
// one scene's full indexed payload and remove a batch during screenplay
// teardown.
type SceneDocumentStore interface {
	GetSceneDocument(ctx context.Context, id string) (*model.SceneDocument, error)
	DeleteSceneDocuments(ctx context.Context, ids []string) error
}

// VectorDeleter removes scene vectors by their document ids.
type VectorDeleter interface {
	DeleteByIDs(ctx context.Context, ids []string) error
}

// ScreenplayService answers relational lookups for the HTTP layer and owns
// the cross-store teardown of a screenplay.
type ScreenplayService struct {
	store     *store.Store
	documents SceneDocumentStore
	vectors   VectorDeleter
}

// NewScreenplayService is the constructor for the ScreenplayService.
func NewScreenplayService(s *store.Store, documents SceneDocumentStore, vectors VectorDeleter) *ScreenplayService {
	return &ScreenplayService{store: s, documents: documents, vectors: vectors}
}

// GetMovieByTMDB looks up a movie by its TMDB id.
func (s *ScreenplayService) GetMovieByTMDB(ctx context.Context, tmdbID int64) (*model.Movie, error) {
	return s.store.GetMovieByTMDB(ctx, tmdbID)
}

// GetScreenplay returns one screenplay record.
func (s *ScreenplayService) GetScreenplay(ctx context.Context, id int64) (*model.Screenplay, error) {
	return s.store.GetScreenplay(ctx, id)
}

// ListScenes returns a screenplay's scenes in sequence order. The screenplay
// must exist; an unknown id yields store.ErrNotFound rather than an empty
// list.
func (s *ScreenplayService) ListScenes(ctx context.Context, screenplayID int64) ([]*model.Scene, error) {
	if _, err := s.store.GetScreenplay(ctx, screenplayID); err != nil {
		return nil, err
	}
	return s.store.ListScenesByScreenplay(ctx, screenplayID)
}

// GetSceneDocument returns the full indexed payload for one scene by the
// document id recorded on its relational row.
func (s *ScreenplayService) GetSceneDocument(ctx context.Context, documentID string) (*model.SceneDocument, error) {
	return s.documents.GetSceneDocument(ctx, documentID)
}

// DeleteScreenplay tears a screenplay down across all three stores: scene
// vectors and documents first, then the relational row (scenes cascade).
// Secondary-store cleanup failures are logged and do not block the relational
// delete; an orphaned index entry is recoverable, a record that cannot be
// removed is not.
func (s *ScreenplayService) DeleteScreenplay(ctx context.Context, screenplayID int64) error {
	scenes, err := s.ListScenes(ctx, screenplayID)
	if err != nil {
		return err
	}

	documentIDs := make([]string, 0, len(scenes))
	for _, scene := range scenes {
		if scene.DocumentID != "" {
			documentIDs = append(documentIDs, scene.DocumentID)
		}
	}
	if len(documentIDs) > 0 {
		if err := s.vectors.DeleteByIDs(ctx, documentIDs); err != nil {
			slog.WarnContext(ctx, "failed to delete scene vectors",
				"screenplay_id", screenplayID,
				"error", err)
		}
		if err := s.documents.DeleteSceneDocuments(ctx, documentIDs); err != nil {
			slog.WarnContext(ctx, "failed to delete scene documents",
				"screenplay_id", screenplayID,
				"error", err)
		}
	}

	return s.store.DeleteScreenplay(ctx, screenplayID)
}
