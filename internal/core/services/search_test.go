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

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/services"
)

type stubEmbedder struct {
	lastInput string
	err       error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.lastInput = text
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.5, 0.5}, nil
}

type stubVectors struct {
	lastTopK int
	matches  []*model.SceneMatch
}

func (v *stubVectors) Query(_ context.Context, _ []float32, topK int) ([]*model.SceneMatch, error) {
	v.lastTopK = topK
	return v.matches, nil
}

func TestFindScenes(t *testing.T) {
	embedder := &stubEmbedder{}
	vectors := &stubVectors{matches: []*model.SceneMatch{
		{DocumentID: "doc-7", Score: 0.91, SceneNumber: 7, AISummary: "The reactor blows."},
	}}
	svc := services.NewSearchService(embedder, vectors, 0)

	matches, err := svc.FindScenes(context.Background(), "explosion on the ship", 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-7", matches[0].DocumentID)
	assert.Equal(t, "explosion on the ship", embedder.lastInput)
	assert.Equal(t, 3, vectors.lastTopK)
}

func TestFindScenesDefaultsTopK(t *testing.T) {
	vectors := &stubVectors{}
	svc := services.NewSearchService(&stubEmbedder{}, vectors, 0)

	_, err := svc.FindScenes(context.Background(), "a standoff", 0)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultTopK, vectors.lastTopK)
}

func TestFindScenesUsesConfiguredTopK(t *testing.T) {
	// A configured default overrides DefaultTopK when the caller passes no
	// count; an explicit count still wins.
	vectors := &stubVectors{}
	svc := services.NewSearchService(&stubEmbedder{}, vectors, 7)

	_, err := svc.FindScenes(context.Background(), "a standoff", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, vectors.lastTopK)

	_, err = svc.FindScenes(context.Background(), "a standoff", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, vectors.lastTopK)
}

func TestFindScenesRejectsEmptyQuery(t *testing.T) {
	svc := services.NewSearchService(&stubEmbedder{}, &stubVectors{}, 0)

	_, err := svc.FindScenes(context.Background(), "   ", 5)
	assert.Error(t, err)
}

func TestFindScenesEmbeddingFailure(t *testing.T) {
	boom := errors.New("quota exhausted")
	svc := services.NewSearchService(&stubEmbedder{err: boom}, &stubVectors{}, 0)

	_, err := svc.FindScenes(context.Background(), "a chase", 5)
	assert.ErrorIs(t, err, boom)
}

func TestFindSceneContexts(t *testing.T) {
	vectors := &stubVectors{matches: []*model.SceneMatch{
		{DocumentID: "doc-1", EmbeddingText: "INT. BRIDGE - DAY Mal at the controls."},
		{DocumentID: "doc-2", EmbeddingText: "EXT. SPACE The ship takes fire."},
	}}
	svc := services.NewSearchService(&stubEmbedder{}, vectors, 0)

	contexts, err := svc.FindSceneContexts(context.Background(), "ship battle", 2)
	require.NoError(t, err)
	require.Len(t, contexts, 2)
	assert.Equal(t, "<START SCENE>\nINT. BRIDGE - DAY Mal at the controls.\n<END SCENE>", contexts[0])
	assert.Contains(t, contexts[1], "The ship takes fire.")
}
