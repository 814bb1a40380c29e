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

// Package commands provides the concrete implementations of the Chain of
// Responsibility pattern's Command interface for the screenplay ingestion
// pipeline. Each command performs one stage: movie creation, text
// extraction, screenplay persistence, and the scene-by-scene sequencing that
// classifies and indexes every scene.
package commands

import (
	"context"
	"fmt"

	"github.com/trubyai/screenplay-search/internal/core/cor"
	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
	"github.com/trubyai/screenplay-search/internal/tmdb"
)

// Named context parameters shared across the ingestion chain. The chain's
// piped value flows through CtxIn/CtxOut; these carry objects that later
// commands need regardless of their position.
const (
	CtxIngestRequest = "__INGEST_REQUEST__"
	CtxMovie         = "__MOVIE__"
	CtxScreenplay    = "__SCREENPLAY__"
)

// MovieMetadataProvider hydrates movie metadata from an external catalog.
type MovieMetadataProvider interface {
	GetMovie(ctx context.Context, tmdbID int64) (*tmdb.MovieDetails, error)
}

// MovieCreator is the first command in the ingestion chain. It fetches the
// movie's metadata from TMDB and inserts the movie row. A movie that already
// has a screenplay stops the chain here, before any scene work begins.
type MovieCreator struct {
	cor.BaseCommand
	store    *store.Store
	metadata MovieMetadataProvider
}

// NewMovieCreator is the constructor for the MovieCreator command.
func NewMovieCreator(name string, s *store.Store, metadata MovieMetadataProvider) *MovieCreator {
	return &MovieCreator{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       s,
		metadata:    metadata,
	}
}

func (c *MovieCreator) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(c.GetInputParam()) != nil
}

// Execute fetches the TMDB details and creates the movie record.
func (c *MovieCreator) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.IngestRequest)
	ctx := context.GetContext()

	details, err := c.metadata.GetMovie(ctx, req.TmdbID)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to fetch movie metadata: %w", err))
		return
	}

	movie := &model.Movie{
		TmdbID:      details.ID,
		ImdbID:      details.ImdbID,
		Title:       details.Title,
		Overview:    details.Overview,
		ReleaseDate: details.ReleaseDate,
		VoteAverage: details.VoteAverage,
		VoteCount:   details.VoteCount,
	}
	if _, err := c.store.CreateMovie(ctx, movie); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(CtxIngestRequest, req)
	context.Add(CtxMovie, movie)
	context.Add(cor.CtxOut, req)
}
