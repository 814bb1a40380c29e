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
	"fmt"
	"log/slog"
	"time"

	"github.com/trubyai/screenplay-search/internal/core/beats"
	"github.com/trubyai/screenplay-search/internal/core/cor"
	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
)

// SceneSequencer walks the scene chunks in screenplay order and carries the
// story-beat state machine across them. For each scene it inserts the
// relational placeholder, determines the beat (fixed for the first and last
// scene, model-classified for interior ones), records the analysis, links
// the scene to its neighbors, and hands the scene to the indexer.
//
// Failure handling is deliberately asymmetric: a relational write or
// classification failure aborts the remaining sequence, while indexing
// failures are logged and skipped so one flaky secondary store cannot sink
// an ingest.
type SceneSequencer struct {
	cor.BaseCommand
	store      *store.Store
	composer   *beats.Composer
	classifier *beats.Classifier
	indexer    *SceneIndexer
	pacing     time.Duration
}

// NewSceneSequencer is the constructor for the SceneSequencer command.
// Pacing is the pause inserted between scene classifications to stay under
// model quota; zero disables it.
func NewSceneSequencer(
	name string,
	s *store.Store,
	composer *beats.Composer,
	classifier *beats.Classifier,
	indexer *SceneIndexer,
	pacing time.Duration) *SceneSequencer {

	return &SceneSequencer{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       s,
		composer:    composer,
		classifier:  classifier,
		indexer:     indexer,
		pacing:      pacing,
	}
}

func (c *SceneSequencer) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(CtxMovie) != nil &&
		context.Get(CtxScreenplay) != nil
}

// Execute runs the per-scene loop and emits the persisted scenes.
func (c *SceneSequencer) Execute(context cor.Context) {
	chunks := context.Get(c.GetInputParam()).(*model.ScreenplayChunks)
	movie := context.Get(CtxMovie).(*model.Movie)
	screenplay := context.Get(CtxScreenplay).(*model.Screenplay)
	ctx := context.GetContext()

	total := len(chunks.SceneTexts)
	scenes := make([]*model.Scene, 0, total)
	previousBeat := beats.Exposition
	var previousID *int64

	for i, text := range chunks.SceneTexts {
		number := i + 1
		if i > 0 && c.pacing > 0 {
			time.Sleep(c.pacing)
		}

		scene := &model.Scene{
			ScreenplayID:    screenplay.ID,
			SceneNumber:     number,
			ProgressRaw:     fmt.Sprintf("%d/%d", number, total),
			ProgressNum:     float64(number) / float64(total),
			PreviousSceneID: previousID,
		}
		sceneID, err := c.store.CreateScenePlaceholder(ctx, scene)
		if err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		if previousID != nil {
			if err := c.store.SetNextScene(ctx, *previousID, sceneID); err != nil {
				c.GetErrorCounter().Add(ctx, 1)
				context.AddError(c.GetName(), err)
				return
			}
			if len(scenes) > 0 {
				scenes[len(scenes)-1].NextSceneID = &sceneID
			}
		}

		// The first and last scenes have fixed beats and skip the model
		// entirely. Everything in between is classified against the current
		// beat and its successor.
		var beat beats.Beat
		var summary string
		switch {
		case number == 1:
			beat = beats.Exposition
		case number == total:
			beat = beats.Resolution
		default:
			prompt, err := c.composer.Compose(movie.Title, number, total, text.RawText, &previousBeat)
			if err != nil {
				c.GetErrorCounter().Add(ctx, 1)
				context.AddError(c.GetName(), fmt.Errorf("scene %d: %w", number, err))
				return
			}
			result, err := c.classifier.Classify(ctx, prompt)
			if err != nil {
				c.GetErrorCounter().Add(ctx, 1)
				context.AddError(c.GetName(), fmt.Errorf("scene %d: %w", number, err))
				return
			}
			beat = result.Beat
			summary = result.Summary
		}

		if err := c.store.UpdateSceneAnalysis(ctx, sceneID, beat.Label(), summary); err != nil {
			c.GetErrorCounter().Add(ctx, 1)
			context.AddError(c.GetName(), err)
			return
		}
		scene.Beat = beat.Label()
		scene.AISummary = summary
		previousBeat = beat
		previousID = &sceneID

		documentID, err := c.indexer.Index(ctx, scene, text)
		if documentID != "" {
			if refErr := c.store.SetSceneDocumentRef(ctx, sceneID, documentID); refErr != nil {
				c.GetErrorCounter().Add(ctx, 1)
				context.AddError(c.GetName(), refErr)
				return
			}
			scene.DocumentID = documentID
		}
		if err != nil {
			slog.WarnContext(ctx, "scene indexing failed, continuing",
				"screenplay_id", screenplay.ID,
				"scene_number", number,
				"error", err)
		}

		scenes = append(scenes, scene)
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(cor.CtxOut, scenes)
}
