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
	"github.com/trubyai/screenplay-search/internal/core/cor"
	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
)

// ScreenplayPersister inserts the screenplay row that anchors the scene
// sequence, recording the full text and the authoritative scene count.
type ScreenplayPersister struct {
	cor.BaseCommand
	store *store.Store
}

// NewScreenplayPersister is the constructor for the ScreenplayPersister
// command.
func NewScreenplayPersister(name string, s *store.Store) *ScreenplayPersister {
	return &ScreenplayPersister{BaseCommand: *cor.NewBaseCommand(name), store: s}
}

func (c *ScreenplayPersister) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(CtxMovie) != nil &&
		context.Get(CtxIngestRequest) != nil
}

// Execute creates the screenplay record and passes the chunks through.
func (c *ScreenplayPersister) Execute(context cor.Context) {
	chunks := context.Get(c.GetInputParam()).(*model.ScreenplayChunks)
	movie := context.Get(CtxMovie).(*model.Movie)
	req := context.Get(CtxIngestRequest).(*model.IngestRequest)
	ctx := context.GetContext()

	screenplay := &model.Screenplay{
		MovieID:     movie.ID,
		StoragePath: req.FilePath,
		Text:        chunks.FullText,
		TotalScenes: len(chunks.SceneTexts),
	}
	if _, err := c.store.CreateScreenplay(ctx, screenplay); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(CtxScreenplay, screenplay)
	context.Add(cor.CtxOut, chunks)
}
