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

package workflow_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trubyai/screenplay-search/internal/clients"
	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
	"github.com/trubyai/screenplay-search/internal/core/workflow"
	"github.com/trubyai/screenplay-search/internal/llm"
	test "github.com/trubyai/screenplay-search/internal/testutil"
	"github.com/trubyai/screenplay-search/internal/tmdb"
)

// config is shared by every test in the package, loaded once in TestMain.
var config *clients.Config

func TestMain(m *testing.M) {
	config = test.GetConfig()
	os.Exit(m.Run())
}

// scenePacing derives the inter-scene delay from the test configuration.
func scenePacing() time.Duration {
	return time.Duration(config.Application.ScenePacingMillis) * time.Millisecond
}

// writeTestScreenplay puts the shared screenplay fixture on disk where the
// extractor expects to find it.
func writeTestScreenplay(t *testing.T, dir string) string {
	t.Helper()
	scriptPath := filepath.Join(dir, "serenity.txt")
	require.NoError(t, os.WriteFile(scriptPath, []byte(test.GetTestScreenplayText()), 0o644))
	return scriptPath
}

type fakeMetadata struct{}

func (f *fakeMetadata) GetMovie(_ context.Context, tmdbID int64) (*tmdb.MovieDetails, error) {
	if tmdbID != 16320 {
		return nil, tmdb.ErrNotFound
	}
	return &tmdb.MovieDetails{ID: 16320, ImdbID: "tt0379786", Title: "Serenity"}, nil
}

type cannedChatModel struct{ responses []string }

func (m *cannedChatModel) GenerateStructured(_ context.Context, _ string, _ string, _ *llm.OutputSpec) (string, error) {
	if len(m.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

type unitEmbedder struct{}

func (e *unitEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type memoryDocuments struct{ count int }

func (d *memoryDocuments) InsertSceneDocument(_ context.Context, doc *model.SceneDocument) (string, error) {
	d.count++
	return fmt.Sprintf("doc-%d", doc.SceneNumber), nil
}

type memoryVectors struct{ count int }

func (v *memoryVectors) Upsert(_ context.Context, _ string, _ []float32, _ map[string]any) error {
	v.count++
	return nil
}

func TestScreenplayIngestWorkflow(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	scriptPath := writeTestScreenplay(t, dir)

	s, err := store.Open(ctx, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	chat := &cannedChatModel{responses: []string{
		// Interior scenes: preamble chunk + two interior scenes get
		// classified; the first and last scene chunks do not.
		`{"ai_summary": "The captain holds the bridge.", "story_beat": "exposition"}`,
		`{"ai_summary": "The job turns into a firefight.", "story_beat": "inciting_incident"}`,
	}}
	docs := &memoryDocuments{}
	vecs := &memoryVectors{}

	w := workflow.NewScreenplayIngestWorkflow("screenplay-ingest", s, &fakeMetadata{}, chat, &unitEmbedder{}, docs, vecs, scenePacing())

	screenplay, scenes, err := w.Ingest(ctx, &model.IngestRequest{FilePath: scriptPath, TmdbID: 16320})
	require.NoError(t, err)

	// Title page preamble plus three sluglines.
	assert.Equal(t, 4, screenplay.TotalScenes)
	require.Len(t, scenes, 4)
	assert.Equal(t, "exposition", scenes[0].Beat)
	assert.Equal(t, "exposition", scenes[1].Beat)
	assert.Equal(t, "inciting_incident", scenes[2].Beat)
	assert.Equal(t, "resolution", scenes[3].Beat)
	assert.Equal(t, 4, docs.count)
	assert.Equal(t, 4, vecs.count)

	movie, err := s.GetMovieByTMDB(ctx, 16320)
	test.HandleErr(err, t)
	assert.Equal(t, movie.ID, screenplay.MovieID)
}

func TestScreenplayIngestWorkflowRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	scriptPath := writeTestScreenplay(t, dir)

	s, err := store.Open(ctx, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	chat := &cannedChatModel{responses: []string{
		`{"ai_summary": "A.", "story_beat": "exposition"}`,
		`{"ai_summary": "B.", "story_beat": "inciting_incident"}`,
	}}
	w := workflow.NewScreenplayIngestWorkflow("screenplay-ingest", s, &fakeMetadata{}, chat, &unitEmbedder{}, &memoryDocuments{}, &memoryVectors{}, scenePacing())

	_, _, err = w.Ingest(ctx, &model.IngestRequest{FilePath: scriptPath, TmdbID: 16320})
	require.NoError(t, err)

	_, _, err = w.Ingest(ctx, &model.IngestRequest{FilePath: scriptPath, TmdbID: 16320})
	assert.ErrorIs(t, err, store.ErrDuplicateMovie)
}

func TestScreenplayIngestWorkflowUnknownMovie(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := store.Open(ctx, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	w := workflow.NewScreenplayIngestWorkflow("screenplay-ingest", s, &fakeMetadata{}, &cannedChatModel{}, &unitEmbedder{}, &memoryDocuments{}, &memoryVectors{}, scenePacing())

	_, _, err = w.Ingest(ctx, &model.IngestRequest{FilePath: "missing.txt", TmdbID: 42})
	assert.ErrorIs(t, err, tmdb.ErrNotFound)
}
