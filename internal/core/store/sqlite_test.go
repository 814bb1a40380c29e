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

package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedScreenplay(t *testing.T, s *store.Store, tmdbID int64) *model.Screenplay {
	t.Helper()
	ctx := context.Background()
	movie := &model.Movie{TmdbID: tmdbID, Title: "Serenity"}
	_, err := s.CreateMovie(ctx, movie)
	require.NoError(t, err)
	sp := &model.Screenplay{MovieID: movie.ID, TotalScenes: 3}
	_, err = s.CreateScreenplay(ctx, sp)
	require.NoError(t, err)
	return sp
}

func TestCreateMovieRejectsDuplicateTmdbID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateMovie(ctx, &model.Movie{TmdbID: 16320, Title: "Serenity"})
	require.NoError(t, err)

	_, err = s.CreateMovie(ctx, &model.Movie{TmdbID: 16320, Title: "Serenity Again"})
	assert.ErrorIs(t, err, store.ErrDuplicateMovie)
}

func TestGetMovieByTMDB(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := &model.Movie{TmdbID: 16320, ImdbID: "tt0379786", Title: "Serenity", VoteAverage: 7.4, VoteCount: 2500}
	_, err := s.CreateMovie(ctx, in)
	require.NoError(t, err)

	got, err := s.GetMovieByTMDB(ctx, 16320)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, "Serenity", got.Title)
	assert.Equal(t, "tt0379786", got.ImdbID)

	_, err = s.GetMovieByTMDB(ctx, 99999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSceneLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sp := seedScreenplay(t, s, 16320)

	first := &model.Scene{ScreenplayID: sp.ID, SceneNumber: 1, ProgressRaw: "1/3", ProgressNum: 1.0 / 3.0}
	firstID, err := s.CreateScenePlaceholder(ctx, first)
	require.NoError(t, err)

	second := &model.Scene{ScreenplayID: sp.ID, SceneNumber: 2, ProgressRaw: "2/3", ProgressNum: 2.0 / 3.0, PreviousSceneID: &firstID}
	secondID, err := s.CreateScenePlaceholder(ctx, second)
	require.NoError(t, err)

	require.NoError(t, s.SetNextScene(ctx, firstID, secondID))
	require.NoError(t, s.UpdateSceneAnalysis(ctx, secondID, "rising_action", "The crew takes the job."))
	require.NoError(t, s.SetSceneDocumentRef(ctx, secondID, "66f1a2b3c4d5e6f7a8b9c0d1"))

	scenes, err := s.ListScenesByScreenplay(ctx, sp.ID)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Nil(t, scenes[0].PreviousSceneID)
	require.NotNil(t, scenes[0].NextSceneID)
	assert.Equal(t, secondID, *scenes[0].NextSceneID)
	assert.Empty(t, scenes[0].Beat)

	require.NotNil(t, scenes[1].PreviousSceneID)
	assert.Equal(t, firstID, *scenes[1].PreviousSceneID)
	assert.Nil(t, scenes[1].NextSceneID)
	assert.Equal(t, "rising_action", scenes[1].Beat)
	assert.Equal(t, "The crew takes the job.", scenes[1].AISummary)
	assert.Equal(t, "66f1a2b3c4d5e6f7a8b9c0d1", scenes[1].DocumentID)
}

func TestSceneNumberUniquePerScreenplay(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sp := seedScreenplay(t, s, 16320)

	_, err := s.CreateScenePlaceholder(ctx, &model.Scene{ScreenplayID: sp.ID, SceneNumber: 1, ProgressRaw: "1/3", ProgressNum: 1.0 / 3.0})
	require.NoError(t, err)

	_, err = s.CreateScenePlaceholder(ctx, &model.Scene{ScreenplayID: sp.ID, SceneNumber: 1, ProgressRaw: "1/3", ProgressNum: 1.0 / 3.0})
	var perr *store.PersistenceError
	assert.ErrorAs(t, err, &perr)
}

func TestDeleteScreenplayCascadesToScenes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sp := seedScreenplay(t, s, 16320)

	sceneID, err := s.CreateScenePlaceholder(ctx, &model.Scene{ScreenplayID: sp.ID, SceneNumber: 1, ProgressRaw: "1/3", ProgressNum: 1.0 / 3.0})
	require.NoError(t, err)

	require.NoError(t, s.DeleteScreenplay(ctx, sp.ID))

	_, err = s.GetScreenplay(ctx, sp.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetScene(ctx, sceneID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteScreenplay(ctx, sp.ID), store.ErrNotFound)
}

func TestUpdateMissingSceneReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateSceneAnalysis(ctx, 42, "climax", "Boom."), store.ErrNotFound)
	assert.ErrorIs(t, s.SetNextScene(ctx, 42, 43), store.ErrNotFound)
	assert.ErrorIs(t, s.SetSceneDocumentRef(ctx, 42, "abc"), store.ErrNotFound)
}
