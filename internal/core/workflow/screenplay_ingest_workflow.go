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

// Package workflow combines the ingestion commands into the screenplay
// pipeline: create the movie, extract and chunk the text, persist the
// screenplay, then sequence every scene through classification and indexing.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/trubyai/screenplay-search/internal/core/beats"
	"github.com/trubyai/screenplay-search/internal/core/commands"
	"github.com/trubyai/screenplay-search/internal/core/cor"
	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
	"github.com/trubyai/screenplay-search/internal/llm"
)

// ScreenplayIngestWorkflow orchestrates one screenplay ingestion end to end.
// It is structured as a Chain of Responsibility whose commands pipe their
// output to the next command's input.
type ScreenplayIngestWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

// NewScreenplayIngestWorkflow wires the ingestion chain.
//
// The chain runs four steps:
//  1. movie-creator: fetch TMDB metadata and insert the movie row. Duplicate
//     movies stop the chain before any scene work.
//  2. screenplay-extractor: read the uploaded file (plain text or PDF) and
//     split it into ordered scene chunks.
//  3. screenplay-persister: insert the screenplay row that owns the scenes.
//  4. scene-sequencer: walk the scenes in order, classify each one's story
//     beat, and write the relational, document, and vector records.
func NewScreenplayIngestWorkflow(
	name string,
	s *store.Store,
	metadata commands.MovieMetadataProvider,
	chatModel llm.ChatModel,
	embedder llm.Embedder,
	documents commands.DocumentWriter,
	vectors commands.VectorWriter,
	scenePacing time.Duration) *ScreenplayIngestWorkflow {

	out := &ScreenplayIngestWorkflow{BaseCommand: *cor.NewBaseCommand(name)}

	chain := cor.NewBaseChain(name)
	chain.AddCommand(commands.NewMovieCreator("movie-creator", s, metadata))
	chain.AddCommand(commands.NewScreenplayExtractor("screenplay-extractor"))
	chain.AddCommand(commands.NewScreenplayPersister("screenplay-persister", s))
	chain.AddCommand(commands.NewSceneSequencer(
		"scene-sequencer",
		s,
		beats.NewComposer(),
		beats.NewClassifier(chatModel),
		commands.NewSceneIndexer(embedder, documents, vectors),
		scenePacing))
	out.chain = chain
	return out
}

func (w *ScreenplayIngestWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(cor.CtxIn) != nil
}

// Execute runs the underlying chain.
func (w *ScreenplayIngestWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Ingest is the programmatic entry point used by the HTTP layer. It seeds a
// chain context with the request, runs the workflow, and unpacks the result.
func (w *ScreenplayIngestWorkflow) Ingest(ctx context.Context, req *model.IngestRequest) (*model.Screenplay, []*model.Scene, error) {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	defer chainCtx.Close()

	chainCtx.Add(cor.CtxIn, req)
	w.Execute(chainCtx)

	if len(chainCtx.GetErrors()) > 0 {
		for name, err := range chainCtx.GetErrors() {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	screenplay, _ := chainCtx.Get(commands.CtxScreenplay).(*model.Screenplay)
	scenes, _ := chainCtx.Get(cor.CtxOut).([]*model.Scene)
	if screenplay == nil {
		return nil, nil, fmt.Errorf("ingestion produced no screenplay for tmdb id %d", req.TmdbID)
	}
	return screenplay, scenes, nil
}
